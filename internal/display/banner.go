package display

import (
	"fmt"
	"os"

	"github.com/backmassage/shrinkwrap/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` ____  _          _       _
/ ___|| |__  _ __(_)_ __ | | ____      ___ __ __ _ _ __
\___ \| '_ \| '__| | '_ \| |/ /\ \ /\ / / '__/ _`+"`"+` | '_ \
 ___) | | | | |  | | | | |   <  \ V  V /| | | (_| | |_) |
|____/|_| |_|_|  |_|_| |_|_|\_\  \_/\_/ |_|  \__,_| .__/
                                                  |_|
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
