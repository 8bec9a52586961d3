package main

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pivolan/readiness_analyzer/plot"
)

// maxMessageLength keeps tables below Telegram's 4096 character limit.
const maxMessageLength = 4000

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type telegramBot struct {
	api        botAPI
	service    *Service
	sessions   *sessionStore
	logger     *zap.Logger
	httpClient *http.Client
	maxUpload  int64
}

func newTelegramBot(api botAPI, service *Service, logger *zap.Logger, ttl time.Duration, maxUpload int64) *telegramBot {
	return &telegramBot{
		api:        api,
		service:    service,
		sessions:   newSessionStore(ttl),
		logger:     logger,
		httpClient: &http.Client{Timeout: time.Minute},
		maxUpload:  maxUpload,
	}
}

// runTelegramBot polls updates until ctx is done.
func runTelegramBot(ctx context.Context, token string, service *Service, logger *zap.Logger, ttl time.Duration, maxUpload int64) error {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return errors.Wrap(err, "tg error")
	}
	logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	bot := newTelegramBot(api, service, logger, ttl, maxUpload)
	go bot.sessions.run(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		return errors.Wrap(err, "cannot receive updates")
	}

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go bot.handleMessage(update.Message)
		}
	}
}

func (b *telegramBot) handleMessage(message *tgbotapi.Message) {
	b.logger.Debug("telegram update",
		zap.Int64("chat_id", message.Chat.ID),
		zap.Bool("document", message.Document != nil),
		zap.String("command", message.Command()),
	)

	switch {
	case message.Document != nil:
		b.handleDocument(message)
	case message.IsCommand():
		b.handleCommand(message)
	default:
		b.sendText(message.Chat.ID, welcomeText)
	}
}

func (b *telegramBot) handleDocument(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	doc := message.Document
	if int64(doc.FileSize) > b.maxUpload {
		b.sendText(chatID, fmt.Sprintf("File is too big, the limit is %d MB.", b.maxUpload>>20))
		return
	}

	data, err := b.download(doc.FileID)
	if err != nil {
		b.logger.Warn("cannot download document", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendText(chatID, "Error on upload file, please try again.")
		return
	}

	ds, err := b.service.Load(doc.FileName, data)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	session := b.sessions.Put(chatID, doc.FileName, ds)
	b.logger.Info("dataset uploaded",
		zap.Int64("chat_id", chatID),
		zap.String("session", session.ID),
		zap.String("filename", doc.FileName),
	)

	summary := b.service.Summarize(doc.FileName, ds)
	b.sendTable(chatID, "diagnostics", GenerateSummaryText(summary)+"\n\n"+GenerateDiagnosticsTable(ds.Names(), summary.ColumnDiagnostics))
	b.sendText(chatID, GenerateRecommendationsText(summary.Recommendations)+"\n\n"+commandsHelp)

	graph, err := plot.MissingValuesChart(ds.Names(), summary.MissingValues)
	if err != nil {
		b.logger.Warn("cannot draw missing values chart", zap.Error(err))
		return
	}
	sendGraphVisualization(b.api, b.logger, chatID, graph, "missing", doc.FileName, "")
}

func (b *telegramBot) download(fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, errors.Wrap(err, "error getting file URL")
	}
	resp, err := b.httpClient.Get(fileURL)
	if err != nil {
		return nil, errors.Wrap(err, "error downloading file")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("error downloading file: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, b.maxUpload))
}

func (b *telegramBot) sendText(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("cannot send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *telegramBot) sendError(chatID int64, err error) {
	b.sendText(chatID, "Error: "+err.Error())
}

// sendTable sends preformatted text inline, or as a .txt document when it is too long.
func (b *telegramBot) sendTable(chatID int64, name, table string) {
	if len(table) < maxMessageLength {
		msg := tgbotapi.NewMessage(chatID, "<pre>\n"+html.EscapeString(table)+"\n</pre>")
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Warn("cannot send table", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		return
	}
	b.sendDocument(chatID, name+time.Now().Format("20060102-150405")+".txt", []byte(table), name)
}

func (b *telegramBot) sendDocument(chatID int64, filename string, data []byte, caption string) {
	doc := tgbotapi.NewDocumentUpload(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Warn("cannot send document", zap.Int64("chat_id", chatID), zap.String("filename", filename), zap.Error(err))
	}
}

const welcomeText = `Hi! I check whether a dataset is ready for modelling and clean it.

Send me a CSV or XLSX file (zip, gzip and lz4 archives work too) and I will reply with:
- missing values, outliers and date-like columns per column
- recommendations (skewed columns, feature ideas)
- a missing values chart

` + commandsHelp

const commandsHelp = `Commands for the last uploaded file:
/process [options JSON] - clean the dataset and get the CSV plus a readiness report
/graph <column> [standard|minmax] - histogram before and after scaling
/code [options JSON] - scikit-learn script reproducing the cleaning

Options example:
{"column_options": {"Age": {"impute": "median", "scale": "standard", "outlier_method": "cap"}}}`
