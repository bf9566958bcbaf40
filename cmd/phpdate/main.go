// Command phpdate parses and formats dates using PHP date layouts.
//
//	phpdate format 'D, d M Y H:i:s' --at 1121376641 --tz Europe/London
//	phpdate parse 'Y-m-d H:i' '2005-07-14 22:30'
//	phpdate zones Europe/
//	phpdate abbrevs bst
//	phpdate inspect /usr/share/zoneinfo/Europe/London
//	phpdate diff /usr/share/zoneinfo/GB /usr/share/zoneinfo/Europe/London
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
