/*
hengine translates captured Houdini Engine cooks into skeletal mesh assets.
*/
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-hengine/cmd"
)

func main() {
	// cancel the running command on system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	cmd.Execute(ctx)
}
