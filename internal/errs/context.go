package errs

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// contextRadius is how many source lines to show above and below the
// failing line (spec: "±5 lines").
const contextRadius = 5

// WithSiteContext annotates message with "file:line:function" plus a small
// source excerpt around the caller's location, for the diagnostic text that
// ends up in a failed CrawlResult's error message. skip is the number of
// stack frames to skip (1 = the caller of WithSiteContext).
//
// Never includes header/cookie values — callers must redact those before
// they reach this function, since source lines are read verbatim from disk.
func WithSiteContext(message string, skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return message
	}

	fn := runtime.FuncForPC(pc)
	fnName := "unknown"
	if fn != nil {
		fnName = fn.Name()
	}

	site := fmt.Sprintf("%s:%d:%s", file, line, fnName)
	excerpt := sourceExcerpt(file, line)
	if excerpt == "" {
		return fmt.Sprintf("%s (at %s)", message, site)
	}
	return fmt.Sprintf("%s (at %s)\n%s", message, site, excerpt)
}

// sourceExcerpt reads contextRadius lines above and below line from file.
// Returns "" if the file cannot be read (e.g. stripped binary, vendored dep).
func sourceExcerpt(file string, line int) string {
	f, err := os.Open(file)
	if err != nil {
		return ""
	}
	defer f.Close()

	lo := line - contextRadius
	if lo < 1 {
		lo = 1
	}
	hi := line + contextRadius

	var b strings.Builder
	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		n++
		if n < lo {
			continue
		}
		if n > hi {
			break
		}
		marker := "  "
		if n == line {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%4d| %s\n", marker, n, scanner.Text())
	}
	return strings.TrimRight(b.String(), "\n")
}
