package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"eqmount/core"
	"eqmount/host/link"
	"eqmount/host/logger"
	"eqmount/host/serial"
	"eqmount/host/sim"
	"eqmount/protocol"
	"eqmount/store"
)

var (
	device   = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud     = flag.Int("baud", 9600, "Baud rate")
	simulate = flag.Bool("simulate", false, "Run against a simulated controller instead of hardware")
	verbose  = flag.Bool("verbose", false, "Enable verbose output")
	logFile  = flag.String("log", "", "Optional log file (rotated)")
)

func main() {
	flag.Parse()

	level := logger.InfoLevel
	if *verbose {
		level = logger.DebugLevel
	}
	logger.Init(level, *logFile)
	defer logger.Sync()
	log := logger.Logger

	fmt.Println("eqmount host console")
	fmt.Println("====================")

	if *simulate {
		runSimulated(log)
		return
	}

	mount := link.New(log)
	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	if err := mount.ConnectWithConfig(cfg); err != nil {
		log.Error("connect failed", zap.Error(err))
		os.Exit(1)
	}
	defer mount.Close()

	ver, err := mount.FirmwareVersion()
	if err != nil {
		log.Error("version query failed", zap.Error(err))
		os.Exit(1)
	}
	fmt.Printf("Connected, controller version %d\n", ver)

	console(log, func(cmd byte, axis byte, payload string) (string, error) {
		return mount.Send(cmd, axis, payload)
	}, nil)
}

// runSimulated hosts the controller core in-process on the simulated
// clock, so the full command surface can be exercised without
// hardware.
func runSimulated(log *zap.Logger) {
	clock := sim.NewClock()
	gpio := sim.NewGPIO()
	st := store.NewMemory(store.DefaultConfig())

	pins := [core.NumAxes]core.AxisPins{
		{Step: 10, Dir: 11, Enable: 12, Reset: 13, Mode: [3]core.GPIOPin{14, 15, 16}},
		{Step: 20, Dir: 21, Enable: 22, Reset: 23, Mode: [3]core.GPIOPin{24, 25, 26}},
	}
	jog := [core.NumAxes]core.JogPins{
		{Plus: 30, Minus: 31},
		{Plus: 32, Minus: 33},
	}

	ctl, err := core.NewController(st, gpio, pins, jog, clock.StepTimers())
	if err != nil {
		log.Error("controller init failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Println("Simulated controller ready (use 'run N' to advance the clock)")

	console(log, func(cmd byte, axis byte, payload string) (string, error) {
		resp, reset := ctl.Dispatch(cmd, core.Axis(axis-'1'), payload)
		if reset {
			fmt.Println("controller reset requested")
		}
		ctl.Poll()
		return strings.TrimSuffix(resp[1:], string(protocol.Terminator)), nil
	}, func(n int) {
		for i := 0; i < n; i++ {
			clock.Run(1)
			ctl.Poll()
		}
	})
}

type sendFunc func(cmd byte, axis byte, payload string) (string, error)

// console runs the interactive loop. advance is non-nil only in
// simulation, where the caller owns the clock.
func console(log *zap.Logger, send sendFunc, advance func(int)) {
	fmt.Println("Commands: pos <1|2>, status <1|2>, stop <1|2>, estop <1|2>,")
	fmt.Println("          raw <c><axis><payload>, run <ticks>, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return
		case "pos", "status":
			if len(fields) < 2 {
				fmt.Println("usage:", fields[0], "<1|2>")
				continue
			}
			cmd := byte('j')
			if fields[0] == "status" {
				cmd = 'f'
			}
			body, err := send(cmd, fields[1][0], "")
			if err != nil {
				log.Warn("command failed", zap.Error(err))
				continue
			}
			v, _ := protocol.DecodeHex(body, protocol.ReplyWidth(cmd))
			fmt.Printf("%s = %06X\n", fields[0], v)
		case "stop", "estop":
			if len(fields) < 2 {
				fmt.Println("usage:", fields[0], "<1|2>")
				continue
			}
			cmd := byte('K')
			if fields[0] == "estop" {
				cmd = 'L'
			}
			if _, err := send(cmd, fields[1][0], ""); err != nil {
				log.Warn("command failed", zap.Error(err))
			}
		case "raw":
			if len(fields) < 2 || len(fields[1]) < 2 {
				fmt.Println("usage: raw <c><axis><payload>")
				continue
			}
			arg := fields[1]
			body, err := send(arg[0], arg[1], arg[2:])
			if err != nil {
				log.Warn("command failed", zap.Error(err))
				continue
			}
			fmt.Printf("= %s\n", body)
		case "run":
			if advance == nil {
				fmt.Println("run is only available with -simulate")
				continue
			}
			n := 1
			if len(fields) > 1 {
				if parsed, err := strconv.Atoi(fields[1]); err == nil {
					n = parsed
				}
			}
			advance(n)
			fmt.Printf("advanced %d ticks\n", n)
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}
