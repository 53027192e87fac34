//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	httpadapter "github.com/jsamuelsen/quoteboard/internal/adapters/http"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteboard/internal/adapters/persistence"
	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

const adminSubject = "admin"

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	server       *httptest.Server
	client       *http.Client
	subject      string
	sources      map[string]int64
	quotes       map[string]int64
	response     *http.Response
	responseBody []byte
}

// newTestContext serves the full router over the shared database.
func newTestContext() *testContext {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sources := persistence.NewSourceRepository(testDB)
	quotes := persistence.NewQuoteRepository(testDB)
	votes := persistence.NewVoteRepository(testDB)
	users := persistence.NewUserRepository(testDB)

	leaderboard := app.NewLeaderboard(app.LeaderboardConfig{Quotes: quotes, Logger: logger})

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:     logger,
		AuthConfig: &config.AuthConfig{LoginURL: "/accounts/login/", AdminRole: "admin"},
		AppConfig:  &config.AppConfig{Name: "quoteboard-bdd"},
		HealthHandler: handlers.NewHealthHandler(ports.NewHealthRegistry(),
			handlers.NewBuildInfo("test", "none", "now")),
		QuoteHandler: handlers.NewQuoteHandler(app.NewQuoteService(app.QuoteServiceConfig{
			Quotes: quotes, Leaderboard: leaderboard, Logger: logger,
		})),
		VoteHandler: handlers.NewVoteHandler(app.NewVoteService(app.VoteServiceConfig{
			Votes: votes, Quotes: quotes, Users: users, Leaderboard: leaderboard, Logger: logger,
		})),
		AdminHandler: handlers.NewAdminHandler(app.NewCatalogService(app.CatalogServiceConfig{
			Sources: sources, Quotes: quotes, Votes: votes, Leaderboard: leaderboard, Logger: logger,
		})),
		Timeout: 10 * time.Second,
	})

	return &testContext{
		server: httptest.NewServer(engine),
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// reset clears scenario state and empties the database.
func (tc *testContext) reset() error {
	tc.subject = ""
	tc.sources = map[string]int64{}
	tc.quotes = map[string]int64{}
	tc.response = nil
	tc.responseBody = nil

	return truncate(testDB)
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := newTestContext()

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	ctx.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		tc.server.Close()
		return ctx, err
	})

	ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
	ctx.Step(`^a (\w+) source "([^"]*)"$`, tc.aSource)
	ctx.Step(`^the source "([^"]*)" has the quote "([^"]*)"$`, tc.theSourceHasTheQuote)
	ctx.Step(`^I add the quote "([^"]*)" to the source "([^"]*)"$`, tc.iAddTheQuote)
	ctx.Step(`^I am logged in as "([^"]*)"$`, tc.iAmLoggedInAs)
	ctx.Step(`^I am anonymous$`, tc.iAmAnonymous)
	ctx.Step(`^I (like|dislike) the quote "([^"]*)"$`, tc.iVoteOnTheQuote)
	ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
	ctx.Step(`^I request GET "([^"]*)" from htmx$`, tc.iRequestGETFromHTMX)
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, tc.theResponseHeaderShouldBe)
	ctx.Step(`^the error detail "([^"]*)" should be "([^"]*)"$`, tc.theErrorDetailShouldBe)
	ctx.Step(`^the quote "([^"]*)" should have (\d+) likes? and (\d+) dislikes?$`, tc.theQuoteShouldHaveCounts)
}

func (tc *testContext) theServiceIsRunning() error {
	if err := tc.send(http.MethodGet, "/-/live", nil); err != nil {
		return err
	}

	return tc.theResponseStatusShouldBe(http.StatusOK)
}

func (tc *testContext) aSource(kind, name string) error {
	return tc.asAdmin(func() error {
		if err := tc.send(http.MethodPost, "/api/v1/admin/sources", dto.SourceRequest{Name: name, Kind: kind}); err != nil {
			return err
		}

		if err := tc.theResponseStatusShouldBe(http.StatusCreated); err != nil {
			return err
		}

		var src dto.SourceResponse
		if err := json.Unmarshal(tc.responseBody, &src); err != nil {
			return fmt.Errorf("decode source: %w", err)
		}

		tc.sources[name] = src.ID

		return nil
	})
}

func (tc *testContext) theSourceHasTheQuote(source, text string) error {
	if err := tc.iAddTheQuote(text, source); err != nil {
		return err
	}

	return tc.theResponseStatusShouldBe(http.StatusCreated)
}

func (tc *testContext) iAddTheQuote(text, source string) error {
	sourceID, ok := tc.sources[source]
	if !ok {
		return fmt.Errorf("unknown source %q", source)
	}

	return tc.asAdmin(func() error {
		if err := tc.send(http.MethodPost, "/api/v1/admin/quotes", dto.QuoteRequest{Text: text, SourceID: sourceID}); err != nil {
			return err
		}

		if tc.response.StatusCode != http.StatusCreated {
			return nil
		}

		var q dto.QuoteResponse
		if err := json.Unmarshal(tc.responseBody, &q); err != nil {
			return fmt.Errorf("decode quote: %w", err)
		}

		tc.quotes[text] = q.ID

		return nil
	})
}

func (tc *testContext) iAmLoggedInAs(subject string) error {
	tc.subject = subject
	return nil
}

func (tc *testContext) iAmAnonymous() error {
	tc.subject = ""
	return nil
}

func (tc *testContext) iVoteOnTheQuote(action, text string) error {
	id, ok := tc.quotes[text]
	if !ok {
		return fmt.Errorf("unknown quote %q", text)
	}

	return tc.send(http.MethodPost, "/api/v1/quotes/"+strconv.FormatInt(id, 10)+"/"+action, nil)
}

func (tc *testContext) iRequestGET(path string) error {
	return tc.send(http.MethodGet, path, nil)
}

func (tc *testContext) iRequestGETFromHTMX(path string) error {
	return tc.send(http.MethodGet, path, nil, "HX-Request", "true")
}

func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

func (tc *testContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

func (tc *testContext) theResponseHeaderShouldBe(name, value string) error {
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}

	if got := tc.response.Header.Get(name); got != value {
		return fmt.Errorf("expected header %s=%q, got %q", name, value, got)
	}

	return nil
}

func (tc *testContext) theErrorDetailShouldBe(field, code string) error {
	var resp dto.ErrorResponse
	if err := json.Unmarshal(tc.responseBody, &resp); err != nil {
		return fmt.Errorf("decode error response: %w", err)
	}

	if got := resp.Error.Details[field]; got != code {
		return fmt.Errorf("expected detail %s=%q, got %q (body: %s)", field, code, got, tc.responseBody)
	}

	return nil
}

func (tc *testContext) theQuoteShouldHaveCounts(text string, likes, dislikes int) error {
	id, ok := tc.quotes[text]
	if !ok {
		return fmt.Errorf("unknown quote %q", text)
	}

	if err := tc.send(http.MethodGet, "/api/v1/quotes/"+strconv.FormatInt(id, 10), nil); err != nil {
		return err
	}

	var q dto.QuoteResponse
	if err := json.Unmarshal(tc.responseBody, &q); err != nil {
		return fmt.Errorf("decode quote: %w", err)
	}

	if q.Likes != int64(likes) || q.Dislikes != int64(dislikes) {
		return fmt.Errorf("expected %d/%d, got %d/%d", likes, dislikes, q.Likes, q.Dislikes)
	}

	return nil
}

// asAdmin runs fn with the admin identity and restores the current one.
func (tc *testContext) asAdmin(fn func() error) error {
	prev := tc.subject
	tc.subject = adminSubject

	defer func() { tc.subject = prev }()

	return fn()
}

// send issues a request as the current subject. headers are name/value pairs.
func (tc *testContext) send(method, path string, body any, headers ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reader io.Reader = http.NoBody

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.server.URL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if tc.subject != "" {
		req.Header.Set("X-User-ID", tc.subject)
	}

	if tc.subject == adminSubject {
		req.Header.Set("X-User-Roles", "admin")
	}

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp

	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	if testDB == nil {
		t.Skip("postgres container not started")
	}

	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
