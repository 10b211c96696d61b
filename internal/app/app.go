// Package app wires the judge-protocol driver, the structured logging
// router, and the optional debug spectator monitor around a
// GameManager, mirroring the composition root the teacher's HTTP
// server used to assemble Hub + Router + net handlers.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	server "portlogistics/server"
	"portlogistics/server/internal/monitor"
	"portlogistics/server/internal/net/ws"
	"portlogistics/server/internal/observability"
	"portlogistics/server/internal/protocol"
	"portlogistics/server/internal/telemetry"
	"portlogistics/server/logging"
	"portlogistics/server/logging/network"
	loggingSinks "portlogistics/server/logging/sinks"
	"portlogistics/server/logging/simulation"
)

// tickBudget is the per-frame pipeline time allowance used to surface
// slow Update() passes; the judge protocol itself carries no deadline,
// but a robot/ship count large enough to blow through this budget is
// worth flagging well before it risks falling behind the judge's feed.
const tickBudget = 50 * time.Millisecond

// tickBudgetAlarmStreak escalates a run of consecutive overruns from a
// warning into an error-level alarm.
const tickBudgetAlarmStreak = 3

// Config controls logging, observability toggles, and the optional
// debug monitor. Observability.EnablePprofTrace, EnableMonitor and
// MonitorAddr have environment-variable overrides so the process can
// be tuned without recompiling, matching the teacher's
// ENABLE_PPROF_TRACE convention; Logger has none.
type Config struct {
	Logger        telemetry.Logger
	Observability observability.Config

	// EnableMonitor starts a read-only websocket spectator feed on
	// MonitorAddr. Off by default; never required by the judge
	// protocol on stdin/stdout.
	EnableMonitor bool
	MonitorAddr   string
}

// Run drives the judge protocol to completion: read init, then loop
// reading a frame, running GameManager.Update, and writing that
// frame's commands, until EOF closes the stream cleanly (spec.md §6).
func Run(ctx context.Context, cfg Config, stdin io.Reader, stdout io.Writer) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	fallbackLogger := log.Default()
	if provider, ok := telemetryLogger.(interface{ StandardLogger() *log.Logger }); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}

	logConfig := logging.DefaultConfig()
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stderr, logConfig.Console)},
	}

	router, err := logging.NewRouter(logging.ClockFunc(time.Now), logConfig, namedSinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	observabilityCfg := cfg.Observability
	if raw := os.Getenv("ENABLE_PPROF_TRACE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			observabilityCfg.EnablePprofTrace = value
		} else {
			telemetryLogger.Printf("invalid ENABLE_PPROF_TRACE=%q: %v", raw, err)
		}
	}

	enableMonitor := cfg.EnableMonitor
	if raw := os.Getenv("ENABLE_MONITOR"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			enableMonitor = value
		} else {
			telemetryLogger.Printf("invalid ENABLE_MONITOR=%q: %v", raw, err)
		}
	}
	monitorAddr := cfg.MonitorAddr
	if monitorAddr == "" {
		monitorAddr = ":8080"
	}
	if raw := os.Getenv("MONITOR_ADDR"); raw != "" {
		monitorAddr = raw
	}

	var hub *monitor.Hub
	if enableMonitor {
		hub = monitor.NewHub()
		handler := ws.NewHandler(hub, ws.HandlerConfig{}, fallbackLogger)
		mux := http.NewServeMux()
		mux.HandleFunc("/monitor", handler.Handle)
		if observabilityCfg.EnablePprofTrace {
			registerPprof(mux)
		}
		srv := &http.Server{Addr: monitorAddr, Handler: mux}
		go func() {
			telemetryLogger.Printf("monitor listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				telemetryLogger.Printf("monitor server stopped: %v", err)
			}
		}()
		defer srv.Close()
	}

	params := server.DefaultParams()
	reader := protocol.NewReader(stdin)
	writer := protocol.NewWriter(stdout)

	init, err := reader.ReadInit()
	if err != nil {
		return fmt.Errorf("read init: %w", err)
	}

	currentFrame := 0
	frameFunc := func() uint64 { return uint64(currentFrame) }
	sink := newInvariantSink(router, frameFunc)
	gm := server.NewGameManager(init, sink, params)
	gm.Events = newDomainEventSink(router, frameFunc)

	for _, r := range gm.Robots {
		if r.Status == server.RobotDeath {
			gm.Events.RobotDeath(r.ID, "spawn cell cannot reach any berth")
		}
	}

	overrunStreak := uint64(0)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		robotCount := len(gm.Robots)
		shipCount := len(gm.Ships)
		frame, err := reader.ReadFrame(robotCount, shipCount)
		if err != nil {
			if perr, ok := err.(*protocol.ProtocolError); ok {
				if isCleanEOF(perr) {
					return nil
				}
				network.ProtocolError(ctx, router, frameFunc(), network.ProtocolErrorPayload{
					Op: perr.Op, Message: perr.Error(),
				}, nil)
			}
			return fmt.Errorf("read frame: %w", err)
		}
		currentFrame = frame.FrameNumber
		network.FrameIngested(ctx, router, frameFunc(), network.FrameIngestedPayload{
			FrameNumber: frame.FrameNumber,
			NewGoods:    len(frame.NewGoods),
			Robots:      len(frame.Robots),
			Ships:       len(frame.Ships),
		}, nil)

		gm.Ingest(frame)

		updateStart := time.Now()
		gm.Update()
		elapsed := time.Since(updateStart)

		if elapsed > tickBudget {
			overrunStreak++
			ratio := float64(elapsed) / float64(tickBudget)
			simulation.TickBudgetOverrun(ctx, router, uint64(currentFrame), simulation.TickBudgetOverrunPayload{
				DurationMillis: elapsed.Milliseconds(),
				BudgetMillis:   tickBudget.Milliseconds(),
				Ratio:          ratio,
				Streak:         overrunStreak,
			}, nil)

			if overrunStreak >= tickBudgetAlarmStreak {
				simulation.TickBudgetAlarm(ctx, router, uint64(currentFrame), simulation.TickBudgetAlarmPayload{
					DurationMillis:  elapsed.Milliseconds(),
					BudgetMillis:    tickBudget.Milliseconds(),
					Ratio:           ratio,
					Streak:          overrunStreak,
					ResyncScheduled: false,
					ThresholdRatio:  ratio,
					ThresholdStreak: tickBudgetAlarmStreak,
				}, nil)
			}
		} else {
			overrunStreak = 0
		}

		if hub != nil {
			snap := monitor.Build(gm, frame.FrameNumber, frame.Money)
			if payload, merr := marshalSnapshot(snap); merr == nil {
				hub.Publish(payload)
			}
		}

		if err := writer.WriteFrame(gm.OutputCommands()); err != nil {
			if perr, ok := err.(*protocol.ProtocolError); ok {
				network.ProtocolError(ctx, router, frameFunc(), network.ProtocolErrorPayload{
					Op: perr.Op, Message: perr.Error(),
				}, nil)
			}
			return fmt.Errorf("write frame: %w", err)
		}
	}
}

func isCleanEOF(perr *protocol.ProtocolError) bool {
	return perr.Op == "read frame number" && perr.Unwrap() == io.EOF
}
