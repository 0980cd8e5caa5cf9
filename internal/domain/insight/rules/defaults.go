package rules

const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Default returns the built-in Japanese rule tables.
func Default() *RuleSet {
	return &RuleSet{
		Tiers: []Tier{
			{
				Name:   TierHigh,
				Weight: 30,
				Keywords: []string{
					"返金", "詐欺", "訴える", "弁護士", "消費者センター",
					"許せない", "最悪", "二度と", "ふざけるな", "責任者",
					"怒り", "対応しない", "解約", "騙された", "信じられない",
					"謝罪", "賠償", "訴訟", "クレーム", "激怒",
				},
			},
			{
				Name:   TierMedium,
				Weight: 15,
				Keywords: []string{
					"不満", "困る", "納得できない", "説明不足", "対応悪い",
					"時間かかる", "遅い", "不誠実", "不親切", "改善",
					"問題", "トラブル", "困った", "心配",
				},
			},
			{
				Name:   TierLow,
				Weight: 5,
				Keywords: []string{
					"確認", "問い合わせ", "教えて", "質問", "わからない",
					"知りたい", "聞きたい", "相談",
				},
			},
		},
		CustomerBoilerplate: []string{
			"お問い合わせいただきありがとうございます",
			"いつもお世話になっております",
			"お世話になっております",
			"お疲れ様です",
			"ご担当者様",
			"株式会社",
			"よろしくお願いいたします",
			"よろしくお願いします",
			"何卒よろしくお願いいたします",
			"何卒よろしくお願いします",
			"ありがとうございます",
			"お手数ですが",
			"お手数をおかけしますが",
			"恐れ入りますが",
			"恐縮ですが",
			"下記をご確認ください",
			"下記の通り",
			"弊社では",
			"弊社の",
			"通常対応で問題ありません",
		},
		OperatorBoilerplate: []string{
			"お問い合わせいただきありがとうございます",
			"いつもお世話になっております",
			"お世話になっております",
			"恐れ入りますが",
			"下記をご確認ください",
			"何卒よろしくお願いいたします",
			"何卒よろしくお願いします",
			"よろしくお願いいたします",
			"よろしくお願いします",
			"下記記事をご参照ください",
		},
		SystemPhrases: []string{
			"自己解決",
			"自動で解決済み",
			"自動的に解決",
			"解決済みに変更",
			"チケットをマージ",
			"マージされました",
			"統合されました",
			"にリンクされました",
			"このチケットは閉じられました",
			"was merged into",
			"has been merged",
			"marked as solved",
		},
	}
}
