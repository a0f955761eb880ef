package useref_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/adapters/useref"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <!-- build:css assets/styles/vendor.css -->
  <link rel="stylesheet" href="/node_modules/bootstrap/dist/css/bootstrap.css">
  <!-- endbuild -->
  <!-- build:css assets/styles/main.css -->
  <link rel="stylesheet" href="assets/styles/main.css">
  <!-- endbuild -->
</head>
<body>
  <!-- a normal comment -->
  <!-- build:js assets/scripts/vendor.js -->
  <script src="/node_modules/jquery/dist/jquery.js"></script>
  <script src="/node_modules/bootstrap/dist/js/bootstrap.js"></script>
  <!-- endbuild -->
  <!-- build:js assets/scripts/main.js -->
  <script src="assets/scripts/main.js?v=1"></script>
  <!-- endbuild -->
  <!-- build:remove -->
  <script src="/livereload.js"></script>
  <!-- endbuild -->
</body>
</html>
`

const indexWant = `<!DOCTYPE html>
<html>
<head>
  <link rel="stylesheet" href="assets/styles/vendor.css">
  <link rel="stylesheet" href="assets/styles/main.css">
</head>
<body>
  <!-- a normal comment -->
  <script src="assets/scripts/vendor.js"></script>
  <script src="assets/scripts/main.js"></script>
  
</body>
</html>
`

func setup(t *testing.T, files map[string]string) (string, domain.Config) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		require.NoError(t, fs.WriteFile(root, name, []byte(content)))
	}
	return root, domain.DefaultConfig(root)
}

func run(t *testing.T, cfg domain.Config) (domain.Config, error) {
	t.Helper()
	return useref.NewResolver(fs.NewResolver(fs.NewWalker())).Run(t.Context(), cfg, &bytes.Buffer{})
}

func TestResolver_Run(t *testing.T) {
	t.Parallel()
	root, cfg := setup(t, map[string]string{
		"temp/index.html":                    indexHTML,
		"temp/assets/styles/main.css":        "body{}",
		"temp/assets/scripts/main.js":        "main();",
		"node_modules/jquery/dist/jquery.js": "jq",
	})

	got, err := run(t, cfg)
	require.NoError(t, err)

	assert.Equal(t, domain.ConcatGroups{
		{Target: "assets/styles/vendor.css", Sources: []string{"temp/node_modules/bootstrap/dist/css/bootstrap.css"}},
		{Target: "assets/styles/main.css", Sources: []string{"assets/styles/main.css"}},
		{Target: "assets/scripts/vendor.js", Sources: []string{
			"temp/node_modules/jquery/dist/jquery.js",
			"temp/node_modules/bootstrap/dist/js/bootstrap.js",
		}},
		{Target: "assets/scripts/main.js", Sources: []string{"assets/scripts/main.js"}},
	}, got.Concat)

	rewritten, err := os.ReadFile(filepath.Join(root, "temp", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, indexWant, string(rewritten))
}

func TestResolver_DuplicateBlocksAcrossPages(t *testing.T) {
	t.Parallel()
	block := `<!-- build:js assets/scripts/main.js --><script src="assets/scripts/main.js"></script><!-- endbuild -->`
	_, cfg := setup(t, map[string]string{
		"temp/index.html": block,
		"temp/about.html": block,
	})

	got, err := run(t, cfg)
	require.NoError(t, err)
	require.Len(t, got.Concat, 1)
}

func TestResolver_ConflictingBlocks(t *testing.T) {
	t.Parallel()
	_, cfg := setup(t, map[string]string{
		"temp/about.html": `<!-- build:js app.js --><script src="a.js"></script><!-- endbuild -->`,
		"temp/index.html": `<!-- build:js app.js --><script src="b.js"></script><!-- endbuild -->`,
	})

	_, err := run(t, cfg)
	require.ErrorContains(t, err, domain.ErrConflictingConcatGroup.Error())
}

func TestResolver_AlternateSearchPath(t *testing.T) {
	t.Parallel()
	_, cfg := setup(t, map[string]string{
		"temp/index.html":           `<!-- build:js(src) app.js --><script src="/assets/scripts/lib.js"></script><!-- endbuild -->`,
		"src/assets/scripts/lib.js": "lib",
	})

	got, err := run(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.ConcatGroups{
		{Target: "app.js", Sources: []string{"src/assets/scripts/lib.js"}},
	}, got.Concat)
}

func TestResolver_NestedPage(t *testing.T) {
	t.Parallel()
	_, cfg := setup(t, map[string]string{
		"temp/blog/post.html": `<!-- build:js ../assets/app.js --><script src="../assets/a.js"></script><script src="local.js"></script><!-- endbuild -->`,
		"temp/assets/a.js":    "a",
		"temp/blog/local.js":  "l",
	})

	got, err := run(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.ConcatGroups{
		{Target: "assets/app.js", Sources: []string{"assets/a.js", "blog/local.js"}},
	}, got.Concat)
}

func TestResolver_EmptyBlock(t *testing.T) {
	t.Parallel()
	_, cfg := setup(t, map[string]string{
		"temp/index.html": `<!-- build:js empty.js --><!-- endbuild -->`,
	})

	got, err := run(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.ConcatGroups{{Target: "empty.js", Sources: []string{}}}, got.Concat)
}

func TestResolver_MalformedBlocks(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unclosed":        `<!-- build:js app.js --><script src="a.js"></script>`,
		"unknown type":    `<!-- build:coffee app.js --><!-- endbuild -->`,
		"missing target":  `<!-- build:css --><!-- endbuild -->`,
		"escaping target": `<!-- build:js ../../outside.js --><!-- endbuild -->`,
	}
	for name, page := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, cfg := setup(t, map[string]string{"temp/index.html": page})
			_, err := run(t, cfg)
			require.ErrorContains(t, err, domain.ErrMalformedBuildBlock.Error())
		})
	}
}

func TestResolver_PageWithoutBlocksIsUntouched(t *testing.T) {
	t.Parallel()
	page := "<html><body><p>plain &amp; simple</p></body></html>"
	root, cfg := setup(t, map[string]string{"temp/index.html": page})

	got, err := run(t, cfg)
	require.NoError(t, err)
	assert.Empty(t, got.Concat)

	data, err := os.ReadFile(filepath.Join(root, "temp", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, page, string(data))
}

func TestFix(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultConfig("/project")
	cfg.Concat = domain.ConcatGroups{
		{Target: "assets/scripts/vendor.js", Sources: []string{"temp/node_modules/jquery/dist/jquery.js", "assets/scripts/plugins.js"}},
	}

	var out bytes.Buffer
	got, err := useref.Fix().Run(t.Context(), cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules/jquery/dist/jquery.js", "assets/scripts/plugins.js"}, got.Concat[0].Sources)
	assert.Equal(t, "temp/node_modules/jquery/dist/jquery.js -> node_modules/jquery/dist/jquery.js\n", out.String())
	assert.Equal(t, "temp/node_modules/jquery/dist/jquery.js", cfg.Concat[0].Sources[0])
}
