package service

import (
	"fmt"

	"seisan/config"

	"gopkg.in/gomail.v2"
)

// EmailService メール通知サービス
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService メール通知サービスを生成する
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendStatusNotification 精算のステータス変更（承認・差し戻し）を申請者へ通知する
func (s *EmailService) SendStatusNotification(toEmail, fullName, projectName, statusLabel, comment string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("メール通知が有効になっていません")
	}

	subject := fmt.Sprintf("【経費精算】「%s」が%sになりました", projectName, statusLabel)
	body := s.generateStatusEmailBody(fullName, projectName, statusLabel, comment)

	return s.sendEmail(toEmail, subject, body)
}

// generateStatusEmailBody 通知メール本文を生成する
func (s *EmailService) generateStatusEmailBody(fullName, projectName, statusLabel, comment string) string {
	remark := ""
	if comment != "" {
		remark = fmt.Sprintf(`
        <div class="remark">
            <p>審査コメント: %s</p>
        </div>`, comment)
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Hiragino Kaku Gothic ProN', 'Meiryo', sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .remark { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .remark p { margin: 0; color: #856404; font-size: 14px; }
        .footer { padding: 20px; text-align: center; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>経費精算システム</h1>
        </div>
        <div class="content">
            <p>%s 様</p>
            <p>精算申請「%s」のステータスが「%s」に変更されました。</p>%s
            <p>詳細はシステムにログインしてご確認ください。</p>
        </div>
        <div class="footer">
            <p>このメールは自動送信されています。返信しないでください。</p>
        </div>
    </div>
</body>
</html>
`, fullName, projectName, statusLabel, remark)
}

// SendTestEmail テストメールを送信する
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("メール通知が有効になっていません")
	}

	subject := "【経費精算】メール設定テスト"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; padding: 20px;">
    <h2>メール設定が完了しました</h2>
    <p>このメールが届いていれば、メール通知の設定は正常です。</p>
    <p style="color: #666;">— 経費精算システム</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}

// sendEmail メールを送信する
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("メール送信に失敗: %w", err)
	}

	return nil
}
