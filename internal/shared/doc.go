// Package shared holds helpers used across the tabinsight packages that do
// not belong to any single layer.
//
// # Test Utilities
//
// The testutil subpackage captures slog output so tests can assert on what
// a component logged, and writes fixture files into temp directories:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    svc := NewThing(logger)
//	    svc.Do()
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "done")
//	}
//
// It must not import other internal packages.
package shared
