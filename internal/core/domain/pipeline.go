package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// PipelineID identifies a named, ordered sequence of steps.
type PipelineID string

// Registered pipelines.
const (
	PipelineLint    PipelineID = "lint"
	PipelineCompile PipelineID = "compile"
	PipelineServe   PipelineID = "serve"
	PipelineBuild   PipelineID = "build"
	PipelineStart   PipelineID = "start"
	PipelineDeploy  PipelineID = "deploy"
)

// String returns the pipeline name.
func (id PipelineID) String() string {
	return string(id)
}

// Step is one entry of a pipeline: either a task or a nested pipeline.
type Step struct {
	Task     TaskID
	Pipeline PipelineID
}

// Name returns the task or pipeline name of the step.
func (s Step) Name() string {
	if s.Pipeline != "" {
		return s.Pipeline.String()
	}
	return s.Task.String()
}

// T returns a step that runs a single task.
func T(id TaskID) Step {
	return Step{Task: id}
}

// P returns a step that runs a nested pipeline.
func P(id PipelineID) Step {
	return Step{Pipeline: id}
}

// Pipelines maps pipeline names to their ordered steps.
type Pipelines map[PipelineID][]Step

// DefaultPipelines returns the fixed pipeline registry.
func DefaultPipelines() Pipelines {
	return Pipelines{
		PipelineLint: {
			T(TaskLintStyles),
			T(TaskLintScripts),
		},
		PipelineCompile: {
			T(TaskTemplates),
			T(TaskStyles),
			T(TaskScripts),
		},
		PipelineServe: {
			P(PipelineCompile),
			T(TaskCopy),
			T(TaskServeDev),
			T(TaskWatch),
		},
		PipelineBuild: {
			T(TaskClean),
			P(PipelineCompile),
			T(TaskCopy),
			T(TaskImages),
			T(TaskUseref),
			T(TaskUserefFix),
			T(TaskConcat),
			T(TaskMinifyHTML),
			T(TaskMinifyCSS),
			T(TaskMinifyJS),
			T(TaskCleanTemp),
		},
		PipelineStart: {
			P(PipelineBuild),
			T(TaskServeDist),
		},
		PipelineDeploy: {
			P(PipelineBuild),
			T(TaskPublish),
		},
	}
}

// Names returns the pipeline names in sorted order.
func (p Pipelines) Names() []PipelineID {
	names := make([]PipelineID, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Flatten expands a pipeline into the ordered list of tasks it runs.
// Nested pipelines are expanded in place. A task may appear more than once.
func (p Pipelines) Flatten(id PipelineID) ([]TaskID, error) {
	if _, ok := p[id]; !ok {
		return nil, zerr.With(ErrUnknownPipeline, "pipeline", id.String())
	}

	visited := make(map[PipelineID]int) // 0: unvisited, 1: visiting, 2: visited
	var path []PipelineID
	var tasks []TaskID

	var visit func(u PipelineID) error
	visit = func(u PipelineID) error {
		visited[u] = 1
		path = append(path, u)

		steps, exists := p[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, step := range steps {
			if step.Pipeline == "" {
				if !step.Task.Valid() {
					return zerr.With(zerr.With(ErrMissingDependency, "dependency", step.Task.String()), "pipeline", u.String())
				}
				tasks = append(tasks, step.Task)
				continue
			}
			if visited[step.Pipeline] == 1 {
				return buildCycleError(path, step.Pipeline)
			}
			if err := visit(step.Pipeline); err != nil {
				return err
			}
		}

		// Nested pipelines may legitimately repeat, so the state goes back to unvisited.
		visited[u] = 0
		path = path[:len(path)-1]
		return nil
	}

	if err := visit(id); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Validate flattens every pipeline, reporting the first structural error.
func (p Pipelines) Validate() error {
	for _, name := range p.Names() {
		if _, err := p.Flatten(name); err != nil {
			return err
		}
	}
	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []PipelineID, dep PipelineID) error {
	startIdx := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}
