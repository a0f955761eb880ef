package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownTask is returned when a task name does not match any registered task.
	ErrUnknownTask = zerr.New("unknown task")

	// ErrUnknownPipeline is returned when a pipeline name does not match any registered pipeline.
	ErrUnknownPipeline = zerr.New("unknown pipeline")

	// ErrMissingTaskImplementation is returned when a registered task has no implementation bound to it.
	ErrMissingTaskImplementation = zerr.New("task has no implementation")

	// ErrMissingDependency is returned when a pipeline step references a name that is neither a task nor a pipeline.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when pipelines include each other in a loop.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrPipelineFailed is returned when a pipeline stops because one of its tasks failed.
	ErrPipelineFailed = zerr.New("pipeline failed")

	// ErrInvalidConfig is returned when the site configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrPackageManifest is returned when package.json is missing or cannot be parsed.
	ErrPackageManifest = zerr.New("failed to load package manifest")

	// ErrInvalidPattern is returned when a glob pattern is malformed.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrUnsafeCleanTarget is returned when a clean target resolves outside the project root.
	ErrUnsafeCleanTarget = zerr.New("clean target is outside project root")

	// ErrLintViolation is returned when a style or script linter reports violations.
	ErrLintViolation = zerr.New("lint violation")

	// ErrTemplateRender is returned when a template fails to parse or render.
	ErrTemplateRender = zerr.New("failed to render template")

	// ErrScriptTranspile is returned when a script cannot be transpiled.
	ErrScriptTranspile = zerr.New("failed to transpile script")

	// ErrStyleCompile is returned when a stylesheet cannot be compiled.
	ErrStyleCompile = zerr.New("failed to compile stylesheet")

	// ErrImageOptimize is returned when an image cannot be optimized.
	ErrImageOptimize = zerr.New("failed to optimize image")

	// ErrMinify is returned when an HTML, CSS or JS file cannot be minified.
	ErrMinify = zerr.New("failed to minify file")

	// ErrIO is returned for file system failures while reading or writing build artifacts.
	ErrIO = zerr.New("file system operation failed")

	// ErrConflictingConcatGroup is returned when two build blocks target the same file with different sources.
	ErrConflictingConcatGroup = zerr.New("conflicting concatenation group")

	// ErrMalformedBuildBlock is returned when a build block is not closed or has an unknown type.
	ErrMalformedBuildBlock = zerr.New("malformed build block")

	// ErrConcatMemberMissing is returned when a concatenation group member cannot be found.
	ErrConcatMemberMissing = zerr.New("concatenation member not found")

	// ErrServerStart is returned when a static server cannot bind its port.
	ErrServerStart = zerr.New("failed to start server")

	// ErrServerAlreadyRunning is returned when a server is started twice.
	ErrServerAlreadyRunning = zerr.New("server already running")

	// ErrPublishFailed is returned when publishing to the hosting branch fails.
	ErrPublishFailed = zerr.New("failed to publish site")

	// ErrPublishDirMissing is returned when the directory to publish does not exist.
	ErrPublishDirMissing = zerr.New("publish directory does not exist")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrEmptyCommand is returned when a command has no program to run.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrInputResolutionFailed is returned when input resolution fails.
	ErrInputResolutionFailed = zerr.New("failed to resolve inputs")

	// ErrInputHashComputationFailed is returned when input hash computation fails.
	ErrInputHashComputationFailed = zerr.New("failed to compute input hash")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrOutputMissing is returned when a declared output file does not exist.
	ErrOutputMissing = zerr.New("output file missing")

	// ErrWatcherStart is returned when the file watcher cannot be started.
	ErrWatcherStart = zerr.New("failed to start file watcher")
)
