package main

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

// maxSizePhoto is the PNG size above which graphs are sent as documents, Telegram
// recompresses larger photos badly.
const maxSizePhoto = 150000

// sendGraphVisualization sends a PNG with a caption describing it.
func sendGraphVisualization(api botAPI, logger *zap.Logger, chatID int64, graph []byte, visualType, columnName, nameGraph string) {
	fileName := fmt.Sprintf("%s_%s_%s.png",
		visualType,
		asciiFilename(columnName),
		time.Now().Format("20060102-150405"))

	pngFile := tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: graph,
	}
	caption := generateVizualDescription(visualType, columnName, nameGraph)

	var msg tgbotapi.Chattable
	if len(graph) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(chatID, pngFile)
		photo.Caption = caption
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(chatID, pngFile)
		doc.Caption = caption
		msg = doc
	}

	if _, err := api.Send(msg); err != nil {
		logger.Warn("cannot send visualization",
			zap.String("type", visualType),
			zap.String("column", columnName),
			zap.Error(err),
		)
		api.Send(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Could not send the %s chart: %v", visualType, err)))
	}
}

func generateVizualDescription(visualType, columnName, nameGraph string) string {
	switch visualType {
	case "transform":
		return fmt.Sprintf("Distribution of %s before and after %s.\n"+
			"Scaling changes the axis, not the shape of the histogram.",
			columnName, nameGraph)
	case "missing":
		return fmt.Sprintf("Missing values per column of %s.", columnName)
	default:
		return fmt.Sprintf("Visualization: %s", columnName)
	}
}
