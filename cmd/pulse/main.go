// Command pulse hand-assembles and sends ICMP Echo Requests for ping and
// traceroute, and can run an in-process demo of the selective-repeat RDT
// engine over a simulated lossy channel.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pulse: %v\n", err)
		os.Exit(1)
	}
}
