// Command spanviews-demo serves an in memory widget catalogue through spanviews view
// models.
package main

import "os"

func main() {
	os.Exit(run(ParseFlags(os.Args[1:])))
}
