// Copyright 2025 The tasknest Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package tasknest

import (
	"io"
	"log/slog"

	"github.com/tasknest/tasknest/ai"
	"github.com/tasknest/tasknest/ai/openai"
	"github.com/tasknest/tasknest/backfill"
	"github.com/tasknest/tasknest/planner"
	"github.com/tasknest/tasknest/search"
	"github.com/tasknest/tasknest/storage"
	"github.com/tasknest/tasknest/storage/badger"
	"github.com/tasknest/tasknest/tasks"
)

// App wires storage and the AI provider together and hands out the domain
// services built on top of them.
type App struct {
	backend     *badger.Backend
	taskRepo    storage.TaskRepository
	subtaskRepo storage.SubtaskRepository
	userRepo    storage.UserRepository
	provider    ai.AIProvider
	logger      *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI client.
// Used in tests and offline tooling.
func WithProvider(provider ai.AIProvider) AppOption {
	return func(o *appOptions) {
		o.provider = provider
	}
}

// NewApp opens the database at filePath and constructs the repositories and
// AI provider. Pass an empty filePath to run fully in memory.
func NewApp(filePath string, opts ...AppOption) (*App, error) {
	// Apply options
	options := &appOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	taskRepo, err := badger.NewTaskRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	subtaskRepo, err := badger.NewSubtaskRepository(backend)
	if err != nil {
		taskRepo.Close()
		backend.Close()
		return nil, err
	}

	userRepo, err := badger.NewUserRepository(backend)
	if err != nil {
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			userRepo.Close()
			subtaskRepo.Close()
			taskRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &App{
		backend:     backend,
		taskRepo:    taskRepo,
		subtaskRepo: subtaskRepo,
		userRepo:    userRepo,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

// Close releases the provider, the repositories, and the backend, in that
// order.
func (a *App) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.userRepo.Close(); err != nil {
		a.logger.Error("error closing user repository", "err", err)
		return err
	}
	if err := a.subtaskRepo.Close(); err != nil {
		a.logger.Error("error closing subtask repository", "err", err)
		return err
	}
	if err := a.taskRepo.Close(); err != nil {
		a.logger.Error("error closing task repository", "err", err)
		return err
	}

	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (a *App) TaskRepository() storage.TaskRepository {
	return a.taskRepo
}

func (a *App) SubtaskRepository() storage.SubtaskRepository {
	return a.subtaskRepo
}

func (a *App) UserRepository() storage.UserRepository {
	return a.userRepo
}

func (a *App) Provider() ai.AIProvider {
	return a.provider
}

func (a *App) NewTaskService(opts ...tasks.Option) (*tasks.Service, error) {
	return tasks.NewService(a.taskRepo, a.provider, opts...)
}

func (a *App) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(a.taskRepo, a.provider, opts...)
}

func (a *App) NewPlanner(opts ...planner.Option) (*planner.Planner, error) {
	return planner.NewPlanner(a.taskRepo, a.subtaskRepo, a.provider, opts...)
}

// NewBackfillPipeline builds a backfill run over the app's repositories.
func (a *App) NewBackfillPipeline(config *backfill.Config, progress io.Writer) (*backfill.Pipeline, error) {
	return backfill.NewPipeline(a.taskRepo, a.provider.Embedder(), config, progress)
}
