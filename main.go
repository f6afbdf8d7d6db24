// Command audioengine is the CLI front-end over pkg/engine: play, playlist,
// devices, and transform.
package main

import "github.com/drgolem/audioengine/cmd"

func main() {
	cmd.Execute()
}
