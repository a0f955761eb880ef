package domain

import "go.trai.ch/zerr"

// TaskID identifies one of the fixed build tasks.
type TaskID string

// Registered tasks.
const (
	TaskClean       TaskID = "clean"
	TaskCleanTemp   TaskID = "clean-temp"
	TaskLintStyles  TaskID = "lint-styles"
	TaskLintScripts TaskID = "lint-scripts"
	TaskTemplates   TaskID = "templates"
	TaskStyles      TaskID = "styles"
	TaskScripts     TaskID = "scripts"
	TaskCopy        TaskID = "copy"
	TaskImages      TaskID = "images"
	TaskUseref      TaskID = "useref"
	TaskUserefFix   TaskID = "useref-fix"
	TaskConcat      TaskID = "concat"
	TaskMinifyHTML  TaskID = "minify-html"
	TaskMinifyCSS   TaskID = "minify-css"
	TaskMinifyJS    TaskID = "minify-js"
	TaskServeDev    TaskID = "serve-dev"
	TaskWatch       TaskID = "watch"
	TaskServeDist   TaskID = "serve-dist"
	TaskPublish     TaskID = "publish"
)

var taskDescriptions = map[TaskID]string{
	TaskClean:       "Remove the intermediate and output directories",
	TaskCleanTemp:   "Remove the intermediate directory",
	TaskLintStyles:  "Lint stylesheets with stylelint",
	TaskLintScripts: "Lint scripts with eslint",
	TaskTemplates:   "Render top-level HTML templates",
	TaskStyles:      "Compile SCSS to CSS",
	TaskScripts:     "Transpile scripts to ES2015",
	TaskCopy:        "Copy public files and fonts",
	TaskImages:      "Optimize images",
	TaskUseref:      "Collapse HTML build blocks into concatenation groups",
	TaskUserefFix:   "Correct dependency paths in concatenation groups",
	TaskConcat:      "Concatenate grouped scripts and stylesheets",
	TaskMinifyHTML:  "Minify HTML pages",
	TaskMinifyCSS:   "Minify stylesheets",
	TaskMinifyJS:    "Minify scripts",
	TaskServeDev:    "Serve the intermediate tree with live reload",
	TaskWatch:       "Recompile sources on change",
	TaskServeDist:   "Serve the output tree for preview",
	TaskPublish:     "Push the output directory to the hosting branch",
}

// AllTasks returns every registered task in declaration order.
func AllTasks() []TaskID {
	return []TaskID{
		TaskClean,
		TaskCleanTemp,
		TaskLintStyles,
		TaskLintScripts,
		TaskTemplates,
		TaskStyles,
		TaskScripts,
		TaskCopy,
		TaskImages,
		TaskUseref,
		TaskUserefFix,
		TaskConcat,
		TaskMinifyHTML,
		TaskMinifyCSS,
		TaskMinifyJS,
		TaskServeDev,
		TaskWatch,
		TaskServeDist,
		TaskPublish,
	}
}

// String returns the task name.
func (id TaskID) String() string {
	return string(id)
}

// Description returns a one-line summary of the task.
func (id TaskID) Description() string {
	return taskDescriptions[id]
}

// Blocking reports whether the task serves or watches until it is
// interrupted. Interrupting such a task ends its run without failure.
func (id TaskID) Blocking() bool {
	switch id {
	case TaskServeDev, TaskWatch, TaskServeDist:
		return true
	default:
		return false
	}
}

// Valid reports whether id names a registered task.
func (id TaskID) Valid() bool {
	_, ok := taskDescriptions[id]
	return ok
}

// ParseTaskID converts a name into a TaskID.
func ParseTaskID(name string) (TaskID, error) {
	id := TaskID(name)
	if !id.Valid() {
		return "", zerr.With(ErrUnknownTask, "task", name)
	}
	return id, nil
}
