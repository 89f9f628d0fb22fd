package fetch

import (
	"context"
	"errors"
	"testing"
)

type fakeRenderer struct {
	markup string
	err    error
}

func (f *fakeRenderer) Render(context.Context, string) (string, error) {
	return f.markup, f.err
}

func TestRenderHTML(t *testing.T) {
	cases := []struct {
		name     string
		renderer Renderer
		want     string
		wantMode RenderMode
	}{
		{name: "no renderer", renderer: nil, want: "static", wantMode: RenderStatic},
		{name: "dynamic success", renderer: &fakeRenderer{markup: "dynamic"}, want: "dynamic", wantMode: RenderDynamic},
		{name: "dynamic error falls back", renderer: &fakeRenderer{err: errors.New("no browser")}, want: "static", wantMode: RenderStatic},
		{name: "empty markup falls back", renderer: &fakeRenderer{markup: "   "}, want: "static", wantMode: RenderStatic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, mode := renderHTML(context.Background(), tc.renderer, "https://example.com", "static")
			if got != tc.want || mode != tc.wantMode {
				t.Fatalf("renderHTML() = (%q, %q), want (%q, %q)", got, mode, tc.want, tc.wantMode)
			}
		})
	}
}
