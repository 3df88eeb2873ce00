package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type stickerFetcher interface {
	GetStickerSet(cfg tgbotapi.GetStickerSetConfig) (tgbotapi.StickerSet, error)
}

type botAPISender struct{ api *tgbotapi.BotAPI }

func (s botAPISender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return s.api.Send(c)
}

func (s botAPISender) GetStickerSet(cfg tgbotapi.GetStickerSetConfig) (tgbotapi.StickerSet, error) {
	return s.api.GetStickerSet(cfg)
}
