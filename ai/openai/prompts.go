package openai

// subtaskSystemPrompt instructs the model to decompose a task title into a
// plain JSON array of short subtask titles.
const subtaskSystemPrompt = `You are a helpful assistant that breaks down big tasks into simple, clear subtasks. Given a main task title, return a list of 5 to 7 clear, short subtasks needed to complete it. The subtasks should be practical and written in plain language. Return them as a plain JSON array. Do not include any extra text or explanations.

Main task: "Plan a wedding"
Example output:
[
  "Book wedding venue",
  "Hire photographer",
  "Send invitations",
  "Arrange catering",
  "Plan wedding ceremony",
  "Choose wedding dress",
  "Plan honeymoon"
]`
