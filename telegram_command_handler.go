package main

import (
	"bytes"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"

	"github.com/pivolan/readiness_analyzer/dataset"
	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/export"
	"github.com/pivolan/readiness_analyzer/stats"
)

// smartQuotes are replaced before parsing options, mobile clients autocorrect them.
var smartQuotes = strings.NewReplacer("“", `"`, "”", `"`, "„", `"`, "«", `"`, "»", `"`)

func (b *telegramBot) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	command := message.Command()
	args := strings.TrimSpace(message.CommandArguments())

	if command == "start" || command == "help" {
		b.sendText(chatID, welcomeText)
		return
	}

	session, ok := b.sessions.Get(chatID)
	if !ok {
		b.sendText(chatID, "Send a dataset file first.")
		return
	}

	switch command {
	case "process":
		b.handleProcess(chatID, session, args)
	case "code":
		b.handleCode(chatID, session, args)
	case "graph":
		b.handleGraph(chatID, session, args)
	case "details":
		b.handleDetails(chatID, session, args)
	default:
		b.sendText(chatID, "Unknown command.\n\n"+commandsHelp)
	}
}

func parseCommandOptions(args string) (models.Options, error) {
	return models.ParseOptions([]byte(smartQuotes.Replace(args)))
}

// parseGraphArgs splits "<column> [standard|minmax]"; the column may contain spaces.
func parseGraphArgs(args string) (column, transform string, err error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", "", models.InvalidInputf("usage: /graph <column> [standard|minmax]")
	}
	transform = string(models.ScaleStandard)
	last := strings.ToLower(fields[len(fields)-1])
	if len(fields) > 1 && (last == string(models.ScaleStandard) || last == string(models.ScaleMinMax)) {
		transform = last
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " "), transform, nil
}

func (b *telegramBot) handleProcess(chatID int64, session *chatSession, args string) {
	opts, err := parseCommandOptions(args)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	cleaned, result, err := b.service.Process(session.Dataset, opts)
	if err != nil {
		b.sendError(chatID, err)
		return
	}

	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, cleaned); err != nil {
		b.sendError(chatID, err)
		return
	}
	b.sendTable(chatID, "readiness", GenerateReadinessTable(result.ReadinessReport))
	b.sendDocument(chatID, "cleaned_"+asciiFilename(strings.TrimSuffix(session.Filename, ".csv"))+".csv", buf.Bytes(),
		fmt.Sprintf("%d rows, %d columns", cleaned.Len(), cleaned.Width()))
	b.logger.Info("dataset processed", zap.String("session", session.ID), zap.Int("rows", cleaned.Len()))
}

func (b *telegramBot) handleCode(chatID int64, session *chatSession, args string) {
	opts, err := parseCommandOptions(args)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	script, err := b.service.ExportCode(session.Filename, session.Dataset, opts)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.sendDocument(chatID, export.ScriptFilename, []byte(script), "scikit-learn pipeline")
}

func (b *telegramBot) handleGraph(chatID int64, session *chatSession, args string) {
	column, transform, err := parseGraphArgs(args)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	comparison, err := b.service.Visualize(session.Dataset, column, transform)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	graph, err := comparison.PNG()
	if err != nil {
		b.logger.Warn("cannot draw comparison", zap.String("column", column), zap.Error(err))
		b.sendText(chatID, "Could not draw the chart.")
		return
	}
	sendGraphVisualization(b.api, b.logger, chatID, graph, "transform", column, comparison.ScalerName())
}

func (b *telegramBot) handleDetails(chatID int64, session *chatSession, column string) {
	if column == "" {
		b.sendText(chatID, "usage: /details <column>")
		return
	}
	c, ok := session.Dataset.Column(column)
	if !ok {
		b.sendError(chatID, models.InvalidInputf("column %q not found", column))
		return
	}
	b.sendTable(chatID, "details", generateColumnDetails(c))
}

// generateColumnDetails describes one column: numeric columns get describe-style
// statistics, the others their most common values.
func generateColumnDetails(c *models.Column) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Column: %s\nType: %s\nMissing: %d of %d\n", c.Name, c.Kind.DType(), c.MissingCount(), c.Len())

	if c.Kind.IsNumeric() {
		values := c.Numbers()
		if len(values) == 0 {
			return sb.String()
		}
		d := stats.Describe(values)
		bounds := stats.IQRBounds(values)
		fmt.Fprintf(&sb, "Mean: %s\nStd: %s\nMin: %s\nMedian: %s\nMax: %s\n",
			formatFloat(d.Mean), formatFloat(d.Std), formatFloat(d.Min), formatFloat(d.Q50), formatFloat(d.Max))
		fmt.Fprintf(&sb, "Skewness: %s\nIQR fences: [%s, %s]\nOutliers: %d\n",
			formatFloat(stats.Skewness(values)), formatFloat(bounds.Lower), formatFloat(bounds.Upper),
			stats.CountOutliers(values, bounds))
		return sb.String()
	}

	distinct := c.Distinct()
	fmt.Fprintf(&sb, "Distinct values: %d\n", len(distinct))
	counts := make(map[string]int, len(distinct))
	for _, v := range c.Values {
		if !v.IsMissing() {
			counts[v.String()]++
		}
	}
	for i, value := range topValues(counts, 10) {
		fmt.Fprintf(&sb, "%d. %s (%d)\n", i+1, value, counts[value])
	}
	return sb.String()
}
