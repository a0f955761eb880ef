package scheduler

import (
	"context"

	"github.com/chensid/grunt-demo/internal/adapters/assets"    //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/cleaner"   //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/concat"    //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/devserver" //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/images"    //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/lint"      //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/minify"    //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/publish"   //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/scripts"   //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/styles"    //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/templates" //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/adapters/useref"    //nolint:depguard // Wired in engine wiring
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// TasksNodeID is the unique identifier for the task registry Graft node.
const TasksNodeID graft.ID = "engine.tasks"

// Tasks binds task identifiers to their implementations.
type Tasks map[domain.TaskID]ports.Task

func init() {
	graft.Register(graft.Node[Tasks]{
		ID:        TasksNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cleaner.NodeID,
			lint.NodeID,
			templates.NodeID,
			scripts.NodeID,
			styles.NodeID,
			assets.NodeID,
			images.NodeID,
			useref.NodeID,
			concat.NodeID,
			minify.NodeID,
			devserver.NodeID,
			publish.NodeID,
		},
		Run: func(ctx context.Context) (Tasks, error) {
			c, err := graft.Dep[*cleaner.Cleaner](ctx)
			if err != nil {
				return nil, err
			}
			linter, err := graft.Dep[*lint.Linter](ctx)
			if err != nil {
				return nil, err
			}
			renderer, err := graft.Dep[*templates.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			transpiler, err := graft.Dep[*scripts.Transpiler](ctx)
			if err != nil {
				return nil, err
			}
			compiler, err := graft.Dep[*styles.Compiler](ctx)
			if err != nil {
				return nil, err
			}
			copier, err := graft.Dep[*assets.Copier](ctx)
			if err != nil {
				return nil, err
			}
			optimizer, err := graft.Dep[*images.Optimizer](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[*useref.Resolver](ctx)
			if err != nil {
				return nil, err
			}
			concatenator, err := graft.Dep[*concat.Concatenator](ctx)
			if err != nil {
				return nil, err
			}
			minifier, err := graft.Dep[*minify.Minifier](ctx)
			if err != nil {
				return nil, err
			}
			server, err := graft.Dep[*devserver.Server](ctx)
			if err != nil {
				return nil, err
			}
			publisher, err := graft.Dep[*publish.Publisher](ctx)
			if err != nil {
				return nil, err
			}

			return Tasks{
				domain.TaskClean:       c.All(),
				domain.TaskCleanTemp:   c.Temp(),
				domain.TaskLintStyles:  linter.Styles(),
				domain.TaskLintScripts: linter.Scripts(),
				domain.TaskTemplates:   renderer,
				domain.TaskStyles:      compiler,
				domain.TaskScripts:     transpiler,
				domain.TaskCopy:        copier,
				domain.TaskImages:      optimizer,
				domain.TaskUseref:      resolver,
				domain.TaskUserefFix:   useref.Fix(),
				domain.TaskConcat:      concatenator,
				domain.TaskMinifyHTML:  minifier.Task(minify.KindHTML),
				domain.TaskMinifyCSS:   minifier.Task(minify.KindCSS),
				domain.TaskMinifyJS:    minifier.Task(minify.KindJS),
				domain.TaskServeDev:    server.Dev(),
				domain.TaskServeDist:   server.Dist(),
				domain.TaskPublish:     publisher,
			}, nil
		},
	})
}
