// Command arama-cekirdegi is the default dispatcher binary: cmd.Execute()
// wired with no customization, per cmd's documented usage pattern.
package main

import "github.com/emsotr/arama-cekirdegi/cmd"

func main() {
	cmd.Execute()
}
