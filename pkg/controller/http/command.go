package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/kensho-lab/acwatch/pkg/usecase"
	"github.com/kensho-lab/acwatch/pkg/utils/async"
	"github.com/kensho-lab/acwatch/pkg/utils/errutil"
	"github.com/kensho-lab/acwatch/pkg/utils/logging"
	"github.com/kensho-lab/acwatch/pkg/utils/safe"
)

const commandUsage = "使い方: `channel` / `register <user,...>` / `unregister <user>` / `list` / `run`"

// CommandHandler dispatches `/acwatch` slash commands to the use case layer
type CommandHandler struct {
	uc         *usecase.UseCases
	httpClient *http.Client
}

// NewCommandHandler creates a new slash command handler
func NewCommandHandler(uc *usecase.UseCases) *CommandHandler {
	return &CommandHandler{
		uc:         uc,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// commandReply is the immediate JSON response to a slash command
type commandReply struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

func writeReply(ctx context.Context, w http.ResponseWriter, inChannel bool, text string) {
	reply := commandReply{
		ResponseType: "ephemeral",
		Text:         text,
	}
	if inChannel {
		reply.ResponseType = "in_channel"
	}

	w.Header().Set("Content-Type", "application/json")
	raw, err := json.Marshal(reply)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to encode command reply"), http.StatusInternalServerError)
		return
	}
	safe.Write(ctx, w, raw)
}

// ServeHTTP handles one slash command invocation. Slack expects a response
// within 3 seconds, so the report run is acknowledged immediately and its
// outcome is delivered through the response URL.
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse command form"), http.StatusBadRequest)
		return
	}

	channelID := r.PostForm.Get("channel_id")
	responseURL := r.PostForm.Get("response_url")
	text := strings.TrimSpace(r.PostForm.Get("text"))

	args := strings.Fields(text)
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}

	logging.From(ctx).Info("slash command received",
		"subcommand", sub,
		"channel", channelID,
		"user", r.PostForm.Get("user_name"))

	switch sub {
	case "channel":
		if err := h.uc.Watch.SetChannel(ctx, channelID); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
		writeReply(ctx, w, true, fmt.Sprintf("チャンネルを <#%s> に設定しました。", channelID))

	case "register":
		if len(args) < 2 {
			writeReply(ctx, w, false, "登録するユーザー名を指定してください。"+commandUsage)
			return
		}
		added, err := h.uc.Watch.RegisterUsers(ctx, strings.Join(args[1:], ","))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}
		writeReply(ctx, w, true, fmt.Sprintf("ユーザー (%s) を登録しました。", strings.Join(added, ", ")))

	case "unregister":
		if len(args) < 2 {
			writeReply(ctx, w, false, "登録解除するユーザー名を指定してください。"+commandUsage)
			return
		}
		if err := h.uc.Watch.UnregisterUser(ctx, args[1]); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
		writeReply(ctx, w, true, fmt.Sprintf("ユーザー (%s) を登録解除しました。", args[1]))

	case "list":
		users, err := h.uc.Watch.ListUsers(ctx)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
		writeReply(ctx, w, false, "登録されているユーザー: "+strings.Join(users, ", "))

	case "run":
		async.Dispatch(ctx, func(ctx context.Context) error {
			return h.runReport(ctx, responseURL)
		})
		writeReply(ctx, w, false, "実行しています…")

	default:
		writeReply(ctx, w, false, commandUsage)
	}
}

// runReport executes a manual report run and delivers the outcome through
// the slash command's response URL.
func (h *CommandHandler) runReport(ctx context.Context, responseURL string) error {
	result := "完了！"
	if _, err := h.uc.Report.Run(ctx); err != nil {
		switch {
		case errors.Is(err, usecase.ErrReportInProgress):
			result = "別の実行が進行中です。"
		case errors.Is(err, usecase.ErrChannelNotConfigured):
			result = "チャンネルが設定されていません。先に `channel` を実行してください。"
		default:
			errutil.Log(ctx, err, "manual report run failed")
			result = "実行に失敗しました: " + err.Error()
		}
	}

	return h.postResponse(ctx, responseURL, result)
}

// postResponse sends a delayed reply to a slash command response URL
func (h *CommandHandler) postResponse(ctx context.Context, responseURL, text string) error {
	if responseURL == "" {
		return nil
	}

	raw, err := json.Marshal(commandReply{ResponseType: "ephemeral", Text: text})
	if err != nil {
		return goerr.Wrap(err, "failed to encode delayed reply")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to build delayed reply request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to post delayed reply", goerr.V("url", responseURL))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status from response URL",
			goerr.V("url", responseURL),
			goerr.V("status", resp.StatusCode))
	}
	return nil
}
