package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
)

// featureWorld is the per-scenario state shared by step definitions
type featureWorld struct {
	t    *testing.T
	env  *testEnv
	resp *httptest.ResponseRecorder
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			w := &featureWorld{t: t}
			w.register(sc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func (w *featureWorld) register(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		w.env = nil
		w.resp = nil
		return ctx, nil
	})

	sc.Step(`^the service is running with auth bypass$`, w.serviceRunningWithBypass)
	sc.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)"$`, w.sendRequest)
	sc.Step(`^I send a (POST|PUT) request to "([^"]*)" with body:$`, w.sendRequestWithBody)
	sc.Step(`^the response status should be (\d+)$`, w.responseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, w.responseFieldShouldBe)
	sc.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, w.responseHeaderShouldBe)
}

func (w *featureWorld) serviceRunningWithBypass() error {
	w.env = newTestEnv(w.t, func(cfg *Config) { cfg.AuthBypass = true })
	return nil
}

func (w *featureWorld) sendRequest(method, target string) error {
	w.resp = w.env.do(method, target, "", nil)
	return nil
}

func (w *featureWorld) sendRequestWithBody(method, target string, body *godog.DocString) error {
	w.resp = w.env.do(method, target, "", body.Content)
	return nil
}

func (w *featureWorld) responseStatusShouldBe(status int) error {
	if w.resp.Code != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, w.resp.Code, w.resp.Body.String())
	}
	return nil
}

func (w *featureWorld) responseFieldShouldBe(path, want string) error {
	var body any
	if err := json.Unmarshal(w.resp.Body.Bytes(), &body); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}

	value := body
	for _, key := range strings.Split(path, ".") {
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("field %q: %v is not an object", key, value)
		}
		value, ok = obj[key]
		if !ok {
			return fmt.Errorf("field %q missing in %s", path, w.resp.Body.String())
		}
	}

	var got string
	switch v := value.(type) {
	case string:
		got = v
	case float64:
		got = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		got = fmt.Sprint(v)
	}

	if got != want {
		return fmt.Errorf("field %q: expected %q, got %q", path, want, got)
	}
	return nil
}

func (w *featureWorld) responseHeaderShouldBe(name, want string) error {
	if got := w.resp.Header().Get(name); got != want {
		return fmt.Errorf("header %q: expected %q, got %q", name, want, got)
	}
	return nil
}
