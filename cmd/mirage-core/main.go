package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mirage-fw/core/internal/config"
	"github.com/mirage-fw/core/internal/fs"
	"github.com/mirage-fw/core/internal/obslog"
	"github.com/mirage-fw/core/internal/supervisor"
	"github.com/mirage-fw/core/internal/transport"
)

const (
	keyboardGadgetPath = "/dev/hidg0"
	mouseGadgetPath    = "/dev/hidg1"
)

func main() {
	// Load config first
	cfg, err := config.Load("config.yml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	if err := obslog.Init(cfg.Board.DataDir, cfg.Board.Silent, os.Getenv("MIRAGE_LOG_LEVEL")); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer obslog.Close()

	obslog.Infof("%s starting...", cfg.Board.Name)

	safeCfg := config.NewSafeConfig(cfg, "config.yml")

	// Open the real HID gadget endpoints if the kernel exposes them; fall
	// back to the in-memory simulator on a development machine.
	var gadget transport.USBGadget
	if g, err := transport.OpenHIDGadget(keyboardGadgetPath, mouseGadgetPath); err == nil {
		obslog.Infof("using HID gadget endpoints %s / %s", keyboardGadgetPath, mouseGadgetPath)
		gadget = g
	} else {
		obslog.Warnf("no HID gadget available (%v), using simulator", err)
		gadget = transport.NewSimulator()
	}
	defer gadget.Close()

	fsys := fs.NewReal(safeCfg.Get().Board.DataDir)
	bus := transport.NewSimulatedBus()

	sup := supervisor.New(safeCfg.Get(), fsys, bus, gadget)
	if err := sup.Boot(); err != nil {
		obslog.Fatalf("Boot failed: %v", err)
	}
	if lastErr := sup.Status().LastError(); lastErr != "" {
		obslog.Warnf("keymap compile: %s", lastErr)
	}
	obslog.Infof("boot %s complete, base layer %q", sup.Status().BootID(), sup.Status().CurrentLayer())

	// Wait for shutdown signal
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		obslog.Infof("shutdown signal received")
		cancel()
	}()

	sup.Run(ctx)

	obslog.Infof("%s stopped (dropped messages: %d)", cfg.Board.Name, sup.Status().DroppedMessages())
}
