// Package openai implements the ai package interfaces against any
// OpenAI-compatible API (OpenAI, Ollama, LocalAI, vLLM).
package openai
