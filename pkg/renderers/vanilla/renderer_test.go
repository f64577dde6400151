package vanilla_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-churnform/pkg/formstate"
	"github.com/goliatone/go-churnform/pkg/lifecycle"
	pkgmodel "github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/render"
	"github.com/goliatone/go-churnform/pkg/renderers/vanilla"
	"github.com/goliatone/go-churnform/pkg/testsupport"
)

func renderPage(t *testing.T, view render.View, opts render.RenderOptions, options ...vanilla.Option) string {
	t.Helper()
	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), view, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func idleView(t *testing.T, form pkgmodel.FormModel) render.View {
	t.Helper()
	state, err := formstate.New(form)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	return render.View{Form: form, Values: state.Values(), Phase: lifecycle.Idle}
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Errorf("expected output to contain %q", fragment)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Errorf("expected output not to contain %q", fragment)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "vanilla" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected renderer identity %s %s", renderer.Name(), renderer.ContentType())
	}
}

func TestRenderer_IdlePage(t *testing.T) {
	form := testsupport.ChurnForm(t)
	html := renderPage(t, idleView(t, form), render.RenderOptions{})

	assertContains(t, html,
		`<title>Customer Churn Prediction</title>`,
		`data-phase="idle"`,
		`<label for="cf-tenure">Tenure (months)</label>`,
		`name="tenure" value="24" step="1" min="0"`,
		`name="MonthlyCharges" value="70" step="0.01"`,
		`<option value="Month-to-month" selected>Month-to-month</option>`,
		`<option value="Bank transfer (automatic)">`,
		`<em>each month</em>`,
		`data-busy-label="Predicting..."`,
		`>Predict Churn</button>`,
	)
	assertNotContains(t, html, `disabled aria-busy`, `role="status"`, `role="alert"`)
}

func TestRenderer_BusyDisablesButton(t *testing.T) {
	view := idleView(t, testsupport.ChurnForm(t))
	view.Phase = lifecycle.Submitting
	view.Busy = true

	html := renderPage(t, view, render.RenderOptions{})
	assertContains(t, html, `data-phase="submitting"`, `disabled aria-busy="true">Predicting...</button>`)
}

func TestRenderer_ResultBanner(t *testing.T) {
	cases := []struct {
		name   string
		result int
		want   string
	}{
		{name: "churn", result: 1, want: `<p class="result danger" role="status">Result: This customer is LIKELY TO CHURN.</p>`},
		{name: "stay", result: 0, want: `<p class="result success" role="status">Result: This customer is LIKELY TO STAY.</p>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := idleView(t, testsupport.ChurnForm(t))
			view.Phase = lifecycle.Succeeded
			result := tc.result
			view.Result = &result

			html := renderPage(t, view, render.RenderOptions{})
			assertContains(t, html, tc.want)
			assertNotContains(t, html, `role="alert"`)
		})
	}
}

func TestRenderer_FailureAlert(t *testing.T) {
	view := idleView(t, testsupport.ChurnForm(t))
	view.Phase = lifecycle.Failed
	view.Alert = lifecycle.DefaultAlertMessage

	html := renderPage(t, view, render.RenderOptions{})
	assertContains(t, html, `<div class="churnform-alert" role="alert">An error occurred. Please check the logs for details.</div>`)
	assertNotContains(t, html, `role="status"`)
}

func TestRenderer_CompactPresetEmitsHiddenInputs(t *testing.T) {
	html := renderPage(t, idleView(t, testsupport.CompactForm(t)), render.RenderOptions{})

	assertContains(t, html,
		`<input type="hidden" name="gender" value="Male">`,
		`<input type="hidden" name="SeniorCitizen" value="0">`,
		`<label for="cf-Contract">`,
	)
	assertNotContains(t, html, `<label for="cf-gender">`)
}

func TestRenderer_ErrorsAndHiddenFields(t *testing.T) {
	opts := render.RenderOptions{
		Action:       "/",
		HiddenFields: map[string]string{"_csrf": "token-1"},
		Errors:       map[string][]string{"tenure": {"tenure=-1: must be >= 0"}},
		FormErrors:   []string{"unknown field bogus"},
	}
	html := renderPage(t, idleView(t, testsupport.ChurnForm(t)), opts)

	assertContains(t, html,
		`action="/"`,
		`<input type="hidden" name="_csrf" value="token-1">`,
		`<li>unknown field bogus</li>`,
		`churnform-field has-error`,
		`must be &gt;= 0`,
	)
}

func TestRenderer_ThemeAndStyles(t *testing.T) {
	selection, err := vanilla.DefaultThemes().Select("", "dark")
	if err != nil {
		t.Fatalf("select theme: %v", err)
	}
	opts := render.RenderOptions{Theme: render.ThemeConfig(selection), Locale: "es"}

	html := renderPage(t, idleView(t, testsupport.ChurnForm(t)), opts,
		vanilla.WithDefaultStyles(),
		vanilla.WithStylesheet("/assets/churnform.css"),
	)
	assertContains(t, html,
		`<html lang="es">`,
		`data-theme="churnform" data-variant="dark"`,
		`--surface: #111827;`,
		`<style>`,
		`.churnform`,
	)
	if strings.Count(html, `href="/assets/churnform.css"`) != 1 {
		t.Fatalf("expected the stylesheet link once")
	}
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"page.tmpl": {Data: []byte(`{{ title }}|{{ button_label }}|{{ banner.tone }}`)},
	}
	view := idleView(t, testsupport.ChurnForm(t))
	view.Phase = lifecycle.Succeeded
	result := 0
	view.Result = &result

	html := renderPage(t, view, render.RenderOptions{}, vanilla.WithTemplatesFS(files))
	if html != "Customer Churn Prediction|Predict Churn|success" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, idleView(t, testsupport.ChurnForm(t)), render.RenderOptions{}); err == nil {
		t.Fatalf("expected canceled context error")
	}
}
