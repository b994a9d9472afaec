// Package compare checks that key lists produced by different runs agree.
//
// Compare reads 2 to 10 key lists in lock step and stops at the first line
// where they diverge or where one of them ends early. Report.Render prints the
// outcome in the console format of the compare-results tool.
//
// Diff is a post-mortem helper: it loads two lists into roaring bitmaps and
// counts the keys found on only one side.
package compare
