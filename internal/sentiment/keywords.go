package sentiment

// Keyword dictionaries for the fallback analyzer, per market.
// ⭐ SSOT: キーワード辞書はここだけで定義する

var positiveKeywordsJP = []string{
	"上昇", "増収", "増益", "好調", "堅調", "上方修正", "最高益",
	"増配", "回復", "成長", "拡大", "改善", "買い", "強気",
	"プラス", "急騰", "高値", "大幅増", "黒字", "好決算",
}

var negativeKeywordsJP = []string{
	"下落", "減収", "減益", "不振", "軟調", "下方修正", "赤字",
	"減配", "悪化", "縮小", "低迷", "売り", "弱気", "リスク",
	"マイナス", "急落", "安値", "大幅減", "損失", "悪決算",
	"破綻", "倒産", "不正", "撤退", "リストラ",
}

var positiveKeywordsUS = []string{
	"up", "rise", "gain", "growth", "jump", "surge", "climb", "rally",
	"profit", "positive", "bull", "bullish", "record", "beat", "strong",
	"upgrade", "buy", "dividend", "revenue up", "outperform",
}

var negativeKeywordsUS = []string{
	"down", "fall", "drop", "decline", "slide", "crash", "plunge", "loss",
	"negative", "bear", "bearish", "miss", "weak", "downgrade", "sell",
	"cut", "revenue down", "underperform", "risk", "debt", "bankrupt",
}

// keywordsForMarket returns the (positive, negative) dictionaries for a
// market code ("JP" or "US"). Unknown markets fall back to JP.
func keywordsForMarket(market string) ([]string, []string) {
	if market == "US" {
		return positiveKeywordsUS, negativeKeywordsUS
	}
	return positiveKeywordsJP, negativeKeywordsJP
}
