// Package action defines the build-step lifecycle events routed to handlers.
package action

import (
	"fmt"
	"strings"
)

// ID identifies one build step for its entire lifetime.
type ID uint64

func (id ID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// StepKind selects which handler variant renders a started step.
type StepKind int

const (
	// KindUnknown is the fallback category for steps no specific handler claims.
	KindUnknown StepKind = 0

	KindCopyPath      StepKind = 100
	KindFileTransfer  StepKind = 101
	KindRealise       StepKind = 102
	KindCopyPaths     StepKind = 103
	KindBuilds        StepKind = 104
	KindBuild         StepKind = 105
	KindOptimiseStore StepKind = 106
	KindVerifyPaths   StepKind = 107
	KindSubstitute    StepKind = 108
	KindQueryPathInfo StepKind = 109
	KindPostBuildHook StepKind = 110
	KindBuildWaiting  StepKind = 111
)

var kindNames = map[StepKind]string{
	KindUnknown:       "unknown",
	KindCopyPath:      "copy-path",
	KindFileTransfer:  "file-transfer",
	KindRealise:       "realise",
	KindCopyPaths:     "copy-paths",
	KindBuilds:        "builds",
	KindBuild:         "build",
	KindOptimiseStore: "optimise-store",
	KindVerifyPaths:   "verify-paths",
	KindSubstitute:    "substitute",
	KindQueryPathInfo: "query-path-info",
	KindPostBuildHook: "post-build-hook",
	KindBuildWaiting:  "build-waiting",
}

func (k StepKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseStepKind maps a kind name to its StepKind.
// Names that are not recognised map to KindUnknown.
func ParseStepKind(name string) StepKind {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindUnknown
}

// ResultKind describes the payload of a Result action.
type ResultKind int

const (
	ResultFileLinked       ResultKind = 100
	ResultBuildLogLine     ResultKind = 101
	ResultUntrustedPath    ResultKind = 102
	ResultCorruptedPath    ResultKind = 103
	ResultSetPhase         ResultKind = 104
	ResultProgress         ResultKind = 105
	ResultSetExpected      ResultKind = 106
	ResultPostBuildLogLine ResultKind = 107
)

var resultNames = map[ResultKind]string{
	ResultFileLinked:       "file-linked",
	ResultBuildLogLine:     "build-log-line",
	ResultUntrustedPath:    "untrusted-path",
	ResultCorruptedPath:    "corrupted-path",
	ResultSetPhase:         "set-phase",
	ResultProgress:         "progress",
	ResultSetExpected:      "set-expected",
	ResultPostBuildLogLine: "post-build-log-line",
}

func (k ResultKind) String() string {
	if name, ok := resultNames[k]; ok {
		return name
	}
	return fmt.Sprintf("result(%d)", int(k))
}

// ParseResultKind maps a result name to its ResultKind.
func ParseResultKind(name string) (ResultKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range resultNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// IsLogLine reports whether the result carries a line of build output.
func (k ResultKind) IsLogLine() bool {
	return k == ResultBuildLogLine || k == ResultPostBuildLogLine
}

// Verbosity is the severity attached to starts and messages.
// Lower values are more severe.
type Verbosity int

const (
	LevelError Verbosity = iota
	LevelWarn
	LevelNotice
	LevelInfo
	LevelTalkative
	LevelChatty
	LevelDebug
	LevelVomit
)

var verbosityNames = []string{"error", "warn", "notice", "info", "talkative", "chatty", "debug", "vomit"}

func (v Verbosity) String() string {
	if v >= 0 && int(v) < len(verbosityNames) {
		return verbosityNames[v]
	}
	return fmt.Sprintf("level(%d)", int(v))
}

// ParseVerbosity maps a level name to its Verbosity.
func ParseVerbosity(name string) (Verbosity, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range verbosityNames {
		if n == name {
			return Verbosity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown verbosity %q", name)
}
