package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"

	"github.com/stitts-dev/draft-sim/internal/report"
	"github.com/stitts-dev/draft-sim/internal/simulator"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Stream message types
const (
	StreamProgress = "progress"
	StreamComplete = "complete"
	StreamError    = "error"
)

// StreamMessage is one frame sent to a streaming client
type StreamMessage struct {
	Type     string              `json:"type"`
	Progress *simulator.Progress `json:"progress,omitempty"`
	Report   *report.Report      `json:"report,omitempty"`
	Error    *utils.AppError     `json:"error,omitempty"`
}

// StreamSimulation upgrades to a websocket, reads one SimulationRequest and
// pushes progress frames followed by a complete or error frame
func (h *SimulationHandler) StreamSimulation(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	var req SimulationRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.writeFrame(conn, StreamMessage{Type: StreamError, Error: utils.NewAppError(utils.ErrCodeValidation, "Invalid request", err.Error())})
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		h.writeFrame(conn, StreamMessage{Type: StreamError, Error: utils.NewAppError(utils.ErrCodeValidation, "Invalid request", err.Error())})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	plan, perr := h.plan(ctx, req)
	if perr != nil {
		h.writeFrame(conn, StreamMessage{Type: StreamError, Error: perr.err})
		return
	}

	type outcome struct {
		summary *simulator.Summary
		err     error
	}
	progressChan := make(chan simulator.Progress, 100)
	done := make(chan outcome, 1)
	go func() {
		summary, err := plan.runner.Run(ctx, plan.trials, progressChan)
		close(progressChan)
		done <- outcome{summary, err}
	}()

	connected := true
	for p := range progressChan {
		if !connected {
			continue
		}
		p := p
		if err := h.writeFrame(conn, StreamMessage{Type: StreamProgress, Progress: &p}); err != nil {
			// client went away; stop queueing trials and drain
			connected = false
			cancel()
		}
	}

	out := <-done
	if !connected {
		return
	}
	if out.err != nil {
		h.writeFrame(conn, StreamMessage{Type: StreamError, Error: h.runError(out.err).err})
		return
	}
	rep := report.New(out.summary, plan.randomness, plan.topK)
	h.writeFrame(conn, StreamMessage{Type: StreamComplete, Report: rep})
}

func (h *SimulationHandler) writeFrame(conn *websocket.Conn, msg StreamMessage) error {
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.WithError(err).Debug("Failed to write stream frame")
		return err
	}
	return nil
}
