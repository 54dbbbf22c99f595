// bepcfg reads, edits, converts and merges BepInEx plugin settings files.
package main

import "github.com/thirteen37/bepcfg/internal/cmd"

func main() {
	cmd.Execute()
}
