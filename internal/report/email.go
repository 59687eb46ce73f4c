package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/config"
	"github.com/wonny/ichiba/pkg/logger"
)

// EmailNotifier delivers the daily report as a multipart mail with an
// HTML body and the plain-text rendering as fallback.
type EmailNotifier struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewEmailNotifier creates an SMTP notifier
func NewEmailNotifier(cfg config.SMTPConfig, log *logger.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, log: log}
}

// Send mails the report to the configured recipient. 未設定ならスキップ。
func (n *EmailNotifier) Send(ctx context.Context, report *contracts.DailyReport) error {
	if !n.cfg.IsConfigured() {
		n.log.Warn("⚠️ SMTP設定が未完了のためメール送信をスキップ")
		return nil
	}

	htmlBody, err := renderHTML(report)
	if err != nil {
		return fmt.Errorf("failed to render report mail: %w", err)
	}

	msg := buildMessage(n.cfg.User, n.cfg.Recipient, subjectFor(report), RenderText(report), htmlBody)

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	if err := smtp.SendMail(addr, auth, n.cfg.User, []string{n.cfg.Recipient}, msg); err != nil {
		return fmt.Errorf("failed to send report mail: %w", err)
	}

	n.log.WithField("recipient", n.cfg.Recipient).Info("📧 レポートメール送信完了")
	return nil
}

// subjectFor builds the mail subject with the top pick inlined
func subjectFor(report *contracts.DailyReport) string {
	date := report.ReportDate.Format(dateLayout)
	if len(report.Recommendations) == 0 {
		return fmt.Sprintf("📊 %s [%s]", applicationLabel, date)
	}
	top := report.Recommendations[0]
	return fmt.Sprintf("📊 %s [%s] Top: %s %s(%s) %.0fpt",
		applicationLabel, date, top.RatingIcon, top.Name, top.Ticker, top.TotalScore)
}

// buildMessage assembles a multipart/alternative MIME message
func buildMessage(from, to, subject, textBody, htmlBody string) []byte {
	const boundary = "ichiba-report-boundary"

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	writePart(&b, boundary, "text/plain", textBody)
	writePart(&b, boundary, "text/html", htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return b.Bytes()
}

func writePart(b *bytes.Buffer, boundary, contentType, body string) {
	fmt.Fprintf(b, "--%s\r\n", boundary)
	fmt.Fprintf(b, "Content-Type: %s; charset=utf-8\r\n", contentType)
	fmt.Fprintf(b, "Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
}

var mailTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc":        func(i int) int { return i + 1 },
	"scoreColor": scoreColor,
	"headSignals": func(signals []string) []string {
		if len(signals) > 3 {
			return signals[:3]
		}
		return signals
	},
	"join": strings.Join,
}).Parse(`<html>
<body style="font-family: 'Segoe UI', 'Hiragino Sans', Arial, sans-serif; background: #0a0a1a; color: #e0e0e0; margin: 0; padding: 20px;">
<div style="max-width: 700px; margin: 0 auto;">
  <div style="background: #16213e; border-radius: 12px; padding: 24px; margin-bottom: 16px;">
    <h1 style="margin: 0; font-size: 22px; color: #fff;">📊 デイリーレポート</h1>
    <p style="margin: 4px 0 0; color: #88a0cc;">{{.ReportDate.Format "2006-01-02"}}</p>
  </div>

  <div style="background: #16213e; border-radius: 12px; padding: 20px; margin-bottom: 16px;">
    <h2 style="margin-top: 0; font-size: 18px;">🌐 マーケットサマリー</h2>
    <p>マクロ環境スコア: <span style="color: {{scoreColor .MarketSummary.MacroScore}}; font-weight: bold; font-size: 18px;">{{printf "%.1f" .MarketSummary.MacroScore}}</span> / 100
    | 市場センチメント: <strong>{{.MarketSummary.MarketSentiment}}</strong></p>
  </div>

  <div style="background: #16213e; border-radius: 12px; padding: 20px; margin-bottom: 16px;">
    <h2 style="margin-top: 0; font-size: 18px;">⭐ おすすめ銘柄 Top {{len .Recommendations}}</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr style="background: #0f3460; font-size: 13px;">
        <th style="padding: 8px;">#</th>
        <th style="padding: 8px; text-align: left;">銘柄</th>
        <th style="padding: 8px; text-align: left;">セクター</th>
        <th style="padding: 8px; text-align: center;">スコア</th>
        <th style="padding: 8px; text-align: center;">評価</th>
        <th style="padding: 8px; text-align: left;">シグナル</th>
      </tr>
      {{range $i, $r := .Recommendations}}
      <tr style="border-bottom: 1px solid #0f3460;">
        <td style="padding: 10px 8px; text-align: center; font-weight: bold;">{{inc $i}}</td>
        <td style="padding: 10px 8px;"><strong>{{$r.Ticker}}</strong><br><span style="color: #aaa; font-size: 13px;">{{$r.Name}}</span></td>
        <td style="padding: 10px 8px; color: #aaa; font-size: 13px;">{{$r.Sector}}</td>
        <td style="padding: 10px 8px; text-align: center;"><span style="font-size: 20px; font-weight: bold; color: {{scoreColor $r.TotalScore}};">{{printf "%.0f" $r.TotalScore}}</span></td>
        <td style="padding: 10px 8px; text-align: center;">{{$r.RatingIcon}} {{$r.Rating}}</td>
        <td style="padding: 10px 8px; font-size: 12px; color: #ccc;">{{range headSignals $r.Signals}}• {{.}}<br>{{end}}</td>
      </tr>
      {{end}}
    </table>
  </div>

  {{if or .SectorAnalysis.BullishSectors .SectorAnalysis.BearishSectors}}
  <div style="margin-top: 16px;">
    {{if .SectorAnalysis.BullishSectors}}<p>🟢 <strong>強気セクター:</strong> {{join .SectorAnalysis.BullishSectors ", "}}</p>{{end}}
    {{if .SectorAnalysis.BearishSectors}}<p>🔴 <strong>弱気セクター:</strong> {{join .SectorAnalysis.BearishSectors ", "}}</p>{{end}}
  </div>
  {{end}}

  {{if .RiskWarnings}}
  <div style="background: #2d1b1b; border: 1px solid #e94560; border-radius: 8px; padding: 12px; margin-top: 16px;">
    <h3 style="color: #e94560; margin-top: 0;">⚠️ リスク警告</h3>
    <ul style="margin: 0; padding-left: 20px;">{{range .RiskWarnings}}<li style="margin: 4px 0;">{{.}}</li>{{end}}</ul>
  </div>
  {{end}}

  <div style="text-align: center; margin-top: 24px; padding: 16px; color: #666; font-size: 12px;">
    <p>自動生成レポート</p>
    <p>⚠️ 本レポートは情報提供のみを目的としており、投資助言ではありません。</p>
  </div>
</div>
</body>
</html>`))

func renderHTML(report *contracts.DailyReport) (string, error) {
	var b bytes.Buffer
	if err := mailTemplate.Execute(&b, report); err != nil {
		return "", err
	}
	return b.String(), nil
}

func scoreColor(score float64) string {
	switch {
	case score >= 55:
		return "#4caf50"
	case score >= 45:
		return "#ff9800"
	default:
		return "#f44336"
	}
}
