package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sofmeright/soundcheck/src/check"
)

// CI environment detection.

func IsCI() bool {
	return os.Getenv("CI") == "true"
}

func IsGitLabCI() bool {
	return os.Getenv("GITLAB_CI") == "true"
}

// GitLab collapsible section helpers.

func SectionStart(w io.Writer, id, name string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_start:%d:%s\r\033[0K%s\n", ts, id, name)
}

func SectionEnd(w io.Writer, id string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_end:%d:%s\r\033[0K\n", ts, id)
}

// SectionStartCollapsed starts a section that is collapsed by default.
func SectionStartCollapsed(w io.Writer, id, name string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_start:%d:%s[collapsed=true]\r\033[0K%s\n", ts, id, name)
}

// JUnit XML types for CI test reporting.

type JUnitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// WriteLintJUnit writes audit findings as JUnit XML for CI test reporting.
// Each check module becomes a test suite, each scanned file a test case.
func WriteLintJUnit(path string, findings []check.Finding, files []check.FileInfo, modules []string, elapsed time.Duration) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report dir: %w", err)
		}
	}

	// Group findings by module → file
	byModule := make(map[string]map[string][]check.Finding)
	for _, m := range modules {
		byModule[m] = make(map[string][]check.Finding)
	}
	for _, f := range findings {
		if _, ok := byModule[f.Module]; !ok {
			byModule[f.Module] = make(map[string][]check.Finding)
		}
		byModule[f.Module][f.File] = append(byModule[f.Module][f.File], f)
	}

	// Keep suite ordering stable: registered modules first, then any
	// extra modules that contributed findings (cross-file passes).
	names := append([]string(nil), modules...)
	seen := make(map[string]bool, len(modules))
	for _, m := range modules {
		seen[m] = true
	}
	for m := range byModule {
		if !seen[m] {
			names = append(names, m)
		}
	}

	totalTests := 0
	totalFailures := 0
	var suites []JUnitTestSuite

	for _, mod := range names {
		modFindings := byModule[mod]
		suite := JUnitTestSuite{
			Name: "soundcheck/check/" + mod,
			Time: fmt.Sprintf("%.3f", elapsed.Seconds()/float64(len(names))),
		}

		// Create a test case for each file scanned
		for _, f := range files {
			tc := JUnitTestCase{
				Name:      f.Path,
				Classname: "soundcheck.check." + mod,
				Time:      "0.000",
			}

			if ff, ok := modFindings[f.Path]; ok && len(ff) > 0 {
				// Find worst severity
				worst := check.SeverityInfo
				var lines []string
				for _, finding := range ff {
					if finding.Severity > worst {
						worst = finding.Severity
					}
					lines = append(lines, fmt.Sprintf("  %s [%s] %s", finding.Location(), finding.Severity, finding.Message))
				}

				// Only critical findings are failures; warnings are not
				if worst >= check.SeverityCritical {
					tc.Failure = &JUnitFailure{
						Message: fmt.Sprintf("%d finding(s) in %s", len(ff), f.Path),
						Type:    worst.String(),
						Body:    strings.Join(lines, "\n"),
					}
					suite.Failures++
					totalFailures++
				}
			}

			suite.Cases = append(suite.Cases, tc)
			suite.Tests++
			totalTests++
		}

		suites = append(suites, suite)
	}

	root := JUnitTestSuites{
		Name:     "soundcheck-lint",
		Tests:    totalTests,
		Failures: totalFailures,
		Time:     fmt.Sprintf("%.3f", elapsed.Seconds()),
		Suites:   suites,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	f.WriteString(xml.Header)
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding junit xml: %w", err)
	}
	f.WriteString("\n")

	return nil
}

// CIContext collects pipeline identity from CI environment variables.
// Returns nil outside CI or when nothing identifying is set. Covers
// GitLab CI and GitHub Actions variable names.
func CIContext() []KV {
	if !IsCI() {
		return nil
	}
	var kv []KV
	if tag := os.Getenv("CI_COMMIT_TAG"); tag != "" {
		kv = append(kv, KV{"tag", tag})
	}
	if sha := os.Getenv("CI_COMMIT_SHORT_SHA"); sha != "" {
		kv = append(kv, KV{"sha", sha})
	} else if sha := os.Getenv("CI_COMMIT_SHA"); sha != "" && len(sha) >= 8 {
		kv = append(kv, KV{"sha", sha[:8]})
	} else if sha := os.Getenv("GITHUB_SHA"); sha != "" && len(sha) >= 8 {
		kv = append(kv, KV{"sha", sha[:8]})
	}
	if pipe := os.Getenv("CI_PIPELINE_ID"); pipe != "" {
		kv = append(kv, KV{"pipeline", pipe})
	} else if run := os.Getenv("GITHUB_RUN_ID"); run != "" {
		kv = append(kv, KV{"run", run})
	}
	if ref := os.Getenv("CI_COMMIT_REF_NAME"); ref != "" {
		kv = append(kv, KV{"ref", ref})
	} else if ref := os.Getenv("GITHUB_REF_NAME"); ref != "" {
		kv = append(kv, KV{"ref", ref})
	}
	return kv
}
