package libs

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"gopkg.in/gomail.v2"

	"toy-store/config"
	"toy-store/models"
	"toy-store/utils"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer returns an error when SMTP is not configured; callers then run
// without confirmation emails.
func NewMailer(cfg *config.Config) (*Mailer, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.SMTPFrom,
	}, nil
}

type orderEmailLine struct {
	Title    string
	Quantity int
	Total    string
}

type orderEmailData struct {
	DisplayID int64
	Lines     []orderEmailLine
	Total     string
}

var orderConfirmationTmpl = template.Must(template.New("order").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .logo { font-size: 24px; font-weight: bold; color: #e11d48; text-align: center; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        td { padding: 8px 0; border-bottom: 1px solid #eee; }
        .total { font-weight: bold; text-align: right; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">Toy Store</div>
        <h2>Thanks for your order #{{.DisplayID}}</h2>
        <p>Your payment was received. We will let you know when your toys ship.</p>
        <table>
            {{range .Lines}}<tr><td>{{.Title}} &times; {{.Quantity}}</td><td class="total">{{.Total}}</td></tr>
            {{end}}
        </table>
        <p class="total">Total: {{.Total}}</p>
        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`))

func (m *Mailer) SendOrderConfirmation(order *models.Order) error {
	data := orderEmailData{
		DisplayID: order.DisplayID,
		Total:     utils.ConvertToLocale(order.Total, order.CurrencyCode),
	}
	for _, item := range order.Items {
		data.Lines = append(data.Lines, orderEmailLine{
			Title:    item.Title,
			Quantity: item.Quantity,
			Total:    utils.ConvertToLocale(item.Total, order.CurrencyCode),
		})
	}

	var body bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render order email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", order.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Order #%d confirmed - Toy Store", order.DisplayID))
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
