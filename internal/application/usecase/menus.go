package usecase

import "github.com/Anzel0/New-Bot/internal/domain"

const choicesPerRow = 3

func button(label string, kind domain.ActionKind) domain.Button {
	return domain.Button{Label: label, Action: domain.NewAction(kind)}
}

func cancelRow(l *domain.Locale) []domain.Button {
	return domain.Row(button(l.BtnCancel, domain.ActionCancel))
}

func actionMenu(l *domain.Locale) domain.Keyboard {
	return domain.Keyboard{
		domain.Row(button(l.BtnCompress, domain.ActionCompress)),
		cancelRow(l),
	}
}

func presetMenu(l *domain.Locale) domain.Keyboard {
	return domain.Keyboard{
		domain.Row(button(l.BtnDefault, domain.ActionPresetDefault)),
		domain.Row(button(l.BtnAdvanced, domain.ActionPresetAdvanced)),
		cancelRow(l),
	}
}

func dimensionMenu(l *domain.Locale, d domain.Dimension) (string, domain.Keyboard) {
	text := l.QualityMenu
	if d == domain.DimensionResolution {
		text = l.ResolutionMenu
	}

	var kb domain.Keyboard
	var row []domain.Button
	for _, c := range d.Choices() {
		row = append(row, domain.Button{Label: c.Label, Action: domain.NewAdvancedOption(d, c.Value)})
		if len(row) == choicesPerRow {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	return text, append(kb, cancelRow(l))
}

func confirmMenu(l *domain.Locale) domain.Keyboard {
	return domain.Keyboard{
		domain.Row(button(l.BtnStartCompression, domain.ActionStartAdvanced)),
		cancelRow(l),
	}
}

// deliveryMenu offers the thumbnail choice, plus "as file" until it is picked.
func deliveryMenu(l *domain.Locale, asFile bool) domain.Keyboard {
	kb := domain.Keyboard{
		domain.Row(
			button(l.BtnWithThumbnail, domain.ActionWithThumbnail),
			button(l.BtnNoThumbnail, domain.ActionNoThumbnail),
		),
	}
	if !asFile {
		kb = append(kb, domain.Row(button(l.BtnAsFile, domain.ActionAsFile)))
	}
	return append(kb, cancelRow(l))
}

func renameMenu(l *domain.Locale) domain.Keyboard {
	return domain.Keyboard{
		domain.Row(
			button(l.BtnRenameYes, domain.ActionRenameYes),
			button(l.BtnRenameNo, domain.ActionRenameNo),
		),
		cancelRow(l),
	}
}

func cancelMenu(l *domain.Locale) domain.Keyboard {
	return domain.Keyboard{cancelRow(l)}
}

func choiceLabel(d domain.Dimension, value string) string {
	for _, c := range d.Choices() {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}
