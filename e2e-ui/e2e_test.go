//go:build e2e

// Package e2e contains end-to-end tests for the sms-spam web UI.
// tests verify that all modes load and the predict and evaluate flows work with and without the model.
package e2e

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseURL        = "http://localhost:18090" // server with model
	noModelURL     = "http://localhost:18091" // server without model
	testDataPath   = "/tmp/sms-spam-e2e-data"
	testPassword   = "e2e-test-password"
	testBinaryPath = "/tmp/sms-spam-e2e"
)

const testModel = `{"version": 1, "classes": ["ham", "spam"], "documents": {"ham": 3, "spam": 3},
	"tokens": {"hello": {"ham": 2}, "lunch": {"ham": 2}, "meeting": {"ham": 2}, "tomorrow": {"ham": 1},
		"congratulations": {"spam": 2}, "won": {"spam": 3}, "free": {"spam": 3}, "prize": {"spam": 3},
		"click": {"spam": 2}}}`

var (
	pw         *playwright.Playwright
	browser    playwright.Browser
	serverCmds []*exec.Cmd
)

func TestMain(m *testing.M) {
	// clean old test data
	_ = os.RemoveAll(testDataPath)
	_ = os.MkdirAll(testDataPath, 0o755)

	if err := os.WriteFile(filepath.Join(testDataPath, "model.json"), []byte(testModel), 0o644); err != nil {
		fmt.Printf("failed to create model: %v\n", err)
		os.Exit(1)
	}

	// build test binary from project root
	build := exec.Command("go", "build", "-o", testBinaryPath, "./app")
	build.Dir = ".." // run from project root
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Printf("failed to build: %v\n", err)
		os.Exit(1)
	}

	stopServers := func() {
		for _, cmd := range serverCmds {
			_ = cmd.Process.Kill()
		}
	}

	servers := []struct{ listen, model string }{
		{":18090", filepath.Join(testDataPath, "model.json")},
		{":18091", filepath.Join(testDataPath, "no-such-model.json")},
	}
	for _, s := range servers {
		cmd := exec.Command(testBinaryPath, "--listen="+s.listen, "--auth="+testPassword, "--model.path="+s.model, "--dbg")
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			fmt.Printf("failed to start server: %v\n", err)
			stopServers()
			os.Exit(1)
		}
		serverCmds = append(serverCmds, cmd)
	}

	// wait for servers readiness
	for _, u := range []string{baseURL, noModelURL} {
		if err := waitForServer(u+"/ping", 30*time.Second); err != nil {
			fmt.Printf("server not ready: %v\n", err)
			stopServers()
			os.Exit(1)
		}
	}

	// install playwright browsers
	if err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	}); err != nil {
		fmt.Printf("failed to install playwright: %v\n", err)
		stopServers()
		os.Exit(1)
	}

	// start playwright
	var err error
	pw, err = playwright.Run()
	if err != nil {
		fmt.Printf("failed to start playwright: %v\n", err)
		stopServers()
		os.Exit(1)
	}

	headless := os.Getenv("E2E_HEADLESS") != "false"
	var slowMo float64
	if !headless {
		slowMo = 50 // slow down visible browser for easier observation
	}
	browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		SlowMo:   playwright.Float(slowMo),
	})
	if err != nil {
		fmt.Printf("failed to launch browser: %v\n", err)
		_ = pw.Stop()
		stopServers()
		os.Exit(1)
	}

	code := m.Run()

	// cleanup
	_ = browser.Close()
	_ = pw.Stop()
	stopServers()
	_ = os.RemoveAll(testDataPath)

	os.Exit(code)
}

func waitForServer(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url) //nolint:gosec // test url
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

// newPage creates a new browser page with authentication.
// each test gets isolated browser context with fresh cookies.
func newPage(t *testing.T) playwright.Page {
	t.Helper()
	ctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		HttpCredentials: &playwright.HttpCredentials{
			Username: "sms-spam",
			Password: testPassword,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctx.Close() })

	page, err := ctx.NewPage()
	require.NoError(t, err)
	return page
}

// waitVisible waits for locator to become visible
func waitVisible(t *testing.T, loc playwright.Locator) {
	t.Helper()
	require.NoError(t, loc.WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}))
}

// uploadCSV writes csv content to a temp file and submits it on the evaluate page
func uploadCSV(t *testing.T, page playwright.Page, content string) {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(fname, []byte(content), 0o600))
	require.NoError(t, page.Locator("input[name='file']").SetInputFiles(fname))
	require.NoError(t, page.Locator("button[type='submit']:has-text('Evaluate')").Click())
}

// --- page load tests ---

func TestPredict_PageLoads(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(baseURL)
	require.NoError(t, err)

	title, err := page.Title()
	require.NoError(t, err)
	assert.Contains(t, title, "SMS Spam Detector")

	waitVisible(t, page.Locator("h4:has-text('Predict a Single Message')"))
	waitVisible(t, page.Locator("textarea[name='msg']"))
	waitVisible(t, page.Locator("button[type='submit']:has-text('Predict')"))
}

func TestEvaluate_PageLoads(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(baseURL + "/evaluate")
	require.NoError(t, err)

	waitVisible(t, page.Locator("h4:has-text('Evaluate on a Dataset')"))
	waitVisible(t, page.Locator("input[name='file']"))
}

func TestInstructions_PageLoads(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(baseURL + "/instructions")
	require.NoError(t, err)

	waitVisible(t, page.Locator("h4:has-text('Instructions')"))
	waitVisible(t, page.Locator("#model-status.alert-success"))
}

// --- navigation tests ---

func TestNavbar_NavigationWorks(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(baseURL)
	require.NoError(t, err)

	waitVisible(t, page.Locator(".navbar"))

	tests := []struct {
		linkText string
		urlPath  string
	}{
		{"Dataset Evaluation", "/evaluate"},
		{"Instructions", "/instructions"},
		{"Single Message Prediction", "/"},
		{"Instructions", "/instructions"},
		{"Dataset Evaluation", "/evaluate"},
	}

	for _, tc := range tests {
		t.Run(tc.linkText, func(t *testing.T) {
			link := page.Locator(fmt.Sprintf(".nav-link:has-text('%s')", tc.linkText))
			require.NoError(t, link.Click())
			require.NoError(t, page.WaitForURL(baseURL+tc.urlPath))
		})
	}
}

// --- single message tests ---

func TestPredict_Spam(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(baseURL)
	require.NoError(t, err)

	require.NoError(t, page.Locator("textarea[name='msg']").Fill("Congratulations! You won a free prize, click now!"))
	require.NoError(t, page.Locator("button[type='submit']:has-text('Predict')").Click())

	result := page.Locator("#result .alert-danger")
	waitVisible(t, result)
	text, err := result.TextContent()
	require.NoError(t, err)
	assert.Contains(t, text, "SPAM")
}

func TestPredict_Ham(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(baseURL)
	require.NoError(t, err)

	require.NoError(t, page.Locator("textarea[name='msg']").Fill("hello, lunch meeting tomorrow?"))
	require.NoError(t, page.Locator("button[type='submit']:has-text('Predict')").Click())

	result := page.Locator("#result .alert-success")
	waitVisible(t, result)
	text, err := result.TextContent()
	require.NoError(t, err)
	assert.Contains(t, text, "HAM")
}

func TestPredict_EmptyMessage(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(baseURL)
	require.NoError(t, err)

	require.NoError(t, page.Locator("textarea[name='msg']").Fill("   "))
	require.NoError(t, page.Locator("button[type='submit']:has-text('Predict')").Click())

	result := page.Locator("#result .alert-warning")
	waitVisible(t, result)
	text, err := result.TextContent()
	require.NoError(t, err)
	assert.Contains(t, text, "Please enter a message")
}

// --- dataset tests ---

func TestEvaluate_AllCorrect(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(baseURL + "/evaluate")
	require.NoError(t, err)

	rows := []string{"sms,label"}
	for i := 0; i < 5; i++ {
		rows = append(rows, "free prize won,spam", "hello lunch meeting,ham")
	}
	uploadCSV(t, page, strings.Join(rows, "\n")+"\n")

	accuracy := page.Locator("#report #accuracy")
	waitVisible(t, accuracy)
	text, err := accuracy.TextContent()
	require.NoError(t, err)
	assert.Equal(t, "100.00%", strings.TrimSpace(text))

	waitVisible(t, page.Locator("#report #classification-report"))
	waitVisible(t, page.Locator("#report svg#confusion-matrix"))
	heatmap, err := page.Locator("#report svg#confusion-matrix").TextContent()
	require.NoError(t, err)
	assert.Contains(t, heatmap, "Predicted")
	assert.Contains(t, heatmap, "Actual")
	assert.Equal(t, 2, strings.Count(heatmap, "1.00"), "diagonal is 1.0")
}

func TestEvaluate_MissingColumns(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(baseURL + "/evaluate")
	require.NoError(t, err)

	uploadCSV(t, page, "sms,text\nhello,ham\n")

	result := page.Locator("#report .alert-danger")
	waitVisible(t, result)
	text, err := result.TextContent()
	require.NoError(t, err)
	assert.Contains(t, text, "CSV must contain 'sms' and 'label' columns")
}

// --- missing model tests ---

func TestNoModel_PredictShowsError(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(noModelURL)
	require.NoError(t, err)

	// nothing is reported before submit
	count, err := page.Locator("#result .alert").Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, page.Locator("textarea[name='msg']").Fill("hello there"))
	require.NoError(t, page.Locator("button[type='submit']:has-text('Predict')").Click())

	result := page.Locator("#result .alert-danger")
	waitVisible(t, result)
	text, err := result.TextContent()
	require.NoError(t, err)
	assert.Contains(t, text, "no-such-model.json")
	assert.Contains(t, text, "not found")
}

func TestNoModel_InstructionsRender(t *testing.T) {
	page := newPage(t)
	_, err := page.Goto(noModelURL + "/instructions")
	require.NoError(t, err)

	waitVisible(t, page.Locator("h4:has-text('Instructions')"))
	waitVisible(t, page.Locator("#model-status.alert-warning"))
}
