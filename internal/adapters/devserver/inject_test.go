package devserver_test

import (
	"testing"

	"github.com/chensid/grunt-demo/internal/adapters/devserver"
	"github.com/stretchr/testify/assert"
)

func TestInjectClient(t *testing.T) {
	t.Parallel()

	const tag = `<script src="/__livereload.js"></script>`
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "before closing body",
			page: "<html><body><p>hi</p></body></html>",
			want: "<html><body><p>hi</p>" + tag + "</body></html>",
		},
		{
			name: "upper case tag",
			page: "<HTML><BODY>x</BODY></HTML>",
			want: "<HTML><BODY>x" + tag + "</BODY></HTML>",
		},
		{
			name: "last body tag wins",
			page: "<body><script>var s = '</body>';</script></body>",
			want: "<body><script>var s = '</body>';</script>" + tag + "</body>",
		},
		{
			name: "appended without body",
			page: "<p>fragment</p>",
			want: "<p>fragment</p>" + tag,
		},
		{
			name: "empty page",
			page: "",
			want: tag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(devserver.InjectClient([]byte(tt.page))))
		})
	}
}

func TestNewMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, devserver.Message{Type: "reload"}, devserver.NewMessage(nil))
	assert.Equal(t,
		devserver.Message{Type: "css", Paths: []string{"/assets/styles/main.css"}},
		devserver.NewMessage([]string{"/assets/styles/main.css"}))
	assert.Equal(t,
		devserver.Message{Type: "reload", Paths: []string{"/assets/styles/main.css", "/index.html"}},
		devserver.NewMessage([]string{"/assets/styles/main.css", "/index.html"}))
}
