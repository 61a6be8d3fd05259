package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"venuehub/internal/api"
	"venuehub/internal/timeslot"
)

// venuesKeyboard builds one button per venue.
func venuesKeyboard(venues []api.Venue) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(venues))
	for _, v := range venues {
		label := v.Name
		if v.City != "" {
			label = fmt.Sprintf("%s — %s", v.Name, v.City)
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("venue:%d", v.ID)),
		})
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// spacesKeyboard builds one button per space of a venue.
func spacesKeyboard(spaces []api.Space) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(spaces)+1)
	for _, sp := range spaces {
		label := fmt.Sprintf("%s · %.0f/h", sp.Name, sp.HourlyRate)
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("space:%d", sp.ID)),
		})
	}
	rows = append(rows, backRow("back:venue"))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// calendarKeyboard builds an inline calendar for a given month.
func calendarKeyboard(year, month int, today time.Time) tgbotapi.InlineKeyboardMarkup {
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	weekdayOffset := int(firstDay.Weekday())
	if weekdayOffset == 0 {
		weekdayOffset = 7 // Monday-first grid
	}
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d", time.Month(month).String(), year), "noop"),
	})
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Mo", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Tu", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("We", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Th", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Fr", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Sa", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Su", "noop"),
	})

	todayOnly := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	day := 1
	for day <= daysInMonth {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 7)
		for col := 1; col <= 7; col++ {
			if len(rows) == 2 && col < weekdayOffset {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", "noop"))
				continue
			}
			if day > daysInMonth {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", "noop"))
				continue
			}
			date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
			if date.Before(todayOnly) {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData("·", "noop"))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("%d", day),
					fmt.Sprintf("date:%s", date.Format("2006-01-02")),
				))
			}
			day++
		}
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("◀️", fmt.Sprintf("month:%s", prevMonth(year, month))),
		tgbotapi.NewInlineKeyboardButtonData("▶️", fmt.Sprintf("month:%s", nextMonth(year, month))),
	})
	rows = append(rows, backRow("back:space"))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func prevMonth(year, month int) string {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0)
	return t.Format("2006-01")
}

func nextMonth(year, month int) string {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, 0)
	return t.Format("2006-01")
}

// slotsKeyboard builds the start-time picker, three slots per row.
func slotsKeyboard(window timeslot.Window) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	var currentRow []tgbotapi.InlineKeyboardButton
	for _, label := range window {
		currentRow = append(currentRow, tgbotapi.NewInlineKeyboardButtonData(
			string(label), fmt.Sprintf("slot:%s", label),
		))
		if len(currentRow) == 3 {
			rows = append(rows, currentRow)
			currentRow = nil
		}
	}
	if len(currentRow) > 0 {
		rows = append(rows, currentRow)
	}
	rows = append(rows, backRow("back:date"))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// durationChip is one selectable duration with its price preview.
type durationChip struct {
	Hours    int
	Price    float64
	Selected bool
}

// durationsKeyboard builds the duration picker from the feasible chips.
func durationsKeyboard(chips []durationChip) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	var currentRow []tgbotapi.InlineKeyboardButton
	for _, chip := range chips {
		label := fmt.Sprintf("%dh · %.0f", chip.Hours, chip.Price)
		if chip.Selected {
			label = "✅ " + label
		}
		currentRow = append(currentRow, tgbotapi.NewInlineKeyboardButtonData(
			label, fmt.Sprintf("dur:%d", chip.Hours),
		))
		if len(currentRow) == 2 {
			rows = append(rows, currentRow)
			currentRow = nil
		}
	}
	if len(currentRow) > 0 {
		rows = append(rows, currentRow)
	}
	rows = append(rows, backRow("back:time"))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// alternativesKeyboard offers start times at which the desired duration fits.
func alternativesKeyboard(starts []timeslot.Label) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(starts)+1)
	for _, s := range starts {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Start at %s instead", s),
				fmt.Sprintf("slot:%s", s),
			),
		})
	}
	rows = append(rows, backRow("back:time"))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", "confirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "cancel"),
		),
	)
}

func backRow(callback string) []tgbotapi.InlineKeyboardButton {
	return []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", callback),
	}
}
