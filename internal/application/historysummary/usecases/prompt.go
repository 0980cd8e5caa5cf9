package usecases

import (
	"fmt"
	"strings"
)

// NoHistoryPrompt is sent when the caller has no past tickets.
const NoHistoryPrompt = "過去の問い合わせ履歴はありません。"

// TicketInput is one past ticket as posted by the widget. Fields are free text.
type TicketInput struct {
	Subject     string
	CreatedAt   string
	Status      string
	Description string
}

// BuildHistoryPrompt renders the three-part history summary request.
func BuildHistoryPrompt(tickets []TicketInput) string {
	if len(tickets) == 0 {
		return NoHistoryPrompt
	}

	var b strings.Builder
	b.WriteString("以下は顧客の過去の問い合わせ履歴です。この情報を基に、以下の3つの観点で要約を作成してください：\n\n")
	b.WriteString("1. **過去の問い合わせ履歴の要約**: 主な問い合わせ内容とその結果\n")
	b.WriteString("2. **注意点**: この顧客に対応する際に注意すべき点\n")
	b.WriteString("3. **対応のヒント**: 効果的な対応方法の提案\n\n")
	b.WriteString("---\n\n")
	b.WriteString("## 過去のチケット履歴\n\n")

	for i, t := range tickets {
		fmt.Fprintf(&b, "### チケット %d\n", i+1)
		fmt.Fprintf(&b, "- **件名**: %s\n", t.Subject)
		fmt.Fprintf(&b, "- **作成日時**: %s\n", t.CreatedAt)
		fmt.Fprintf(&b, "- **ステータス**: %s\n", t.Status)
		if t.Description != "" {
			fmt.Fprintf(&b, "- **内容**: %s\n", t.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("上記の情報を基に、簡潔で実用的な要約を日本語で作成してください。")
	return b.String()
}
