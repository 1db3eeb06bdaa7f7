// Command unipadctl sends one control command to a running unipad through
// its monitor websocket and prints the reply.
//
//	unipadctl map BTN_SOUTH as BTN_EAST
//	unipadctl print
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lxzan/gws"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("unipadctl", pflag.ContinueOnError)
	addr := fs.StringP("addr", "a", "ws://localhost:8080/ws", "monitor websocket of the daemon")
	timeout := fs.DurationP("timeout", "t", 5*time.Second, "how long to wait for the reply")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: unipadctl [flags] map <source> as <target> | reset | print")
		os.Exit(2)
	}

	reply, err := send(*addr, strings.Join(fs.Args(), " "), *timeout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Print(reply)
}

func send(addr, command string, timeout time.Duration) (string, error) {
	h := newHandler(command)
	socket, _, err := gws.NewClient(h, &gws.ClientOption{Addr: addr})
	if err != nil {
		return "", errors.Wrapf(err, "connect %s", addr)
	}
	go socket.ReadLoop()
	defer socket.WriteClose(1000, nil)

	select {
	case r := <-h.done:
		return r.text, r.err
	case <-time.After(timeout):
		return "", errors.Errorf("no reply from %s within %v", addr, timeout)
	}
}
