// Package notify mails a digest of the promotions found by a crawl.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"plateanet-crawler/internal/components/assert"
	"plateanet-crawler/internal/components/chrono"
	"plateanet-crawler/internal/components/telemetry"
	"plateanet-crawler/internal/config"
	"plateanet-crawler/internal/crawler"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const report_notify_send = "notify.send"

var tracer = otel.Tracer("plateanet/notify")

// RenderDigest formats the reports that have at least one promotion as plain
// text. It returns false when there is nothing worth sending.
func RenderDigest(reports []crawler.ProductionReport, at chrono.API) (string, bool) {
	var b strings.Builder
	count := 0

	fmt.Fprintf(&b, "Promotions available as of %s\n", at.Now().Format("02/01/2006 15:04"))
	for _, report := range reports {
		if report.PromotionCount() == 0 {
			continue
		}
		count++

		fmt.Fprintf(&b, "\n%s (%s)\n", report.Name, report.ProductionId)
		for _, performance := range report.Performances {
			if len(performance.Promotions) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s\n", performance.Name)
			for _, promotion := range performance.Promotions {
				fmt.Fprintf(&b, "    - %s: %s\n", promotion.Name, strings.Join(promotion.Sectors, ", "))
			}
		}
	}

	return b.String(), count > 0
}

// Digest is a crawler.Sink that keeps the successful reports of a run so
// they can be mailed once the run finishes.
type Digest struct {
	mutex   sync.Mutex
	reports []crawler.ProductionReport
}

func (d *Digest) Consume(result crawler.Result) {
	if result.Failed() {
		return
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.reports = append(d.reports, *result.Report)
}

// Reports returns what was collected so far, ordered by production id.
func (d *Digest) Reports() []crawler.ProductionReport {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	out := make([]crawler.ProductionReport, len(d.reports))
	copy(out, d.reports)
	crawler.SortReports(out)
	return out
}

type Mailer struct {
	cfg   config.EmailConfig
	clock chrono.API
	tel   telemetry.API
	// send is swapped out by tests
	send func(mail *email.Email) error
}

func NewMailer(cfg config.EmailConfig, clock chrono.API, tel telemetry.API) Mailer {
	assert.NotNil(clock)
	assert.NotNil(tel)

	m := Mailer{
		cfg:   cfg,
		clock: clock,
		tel:   telemetry.NewScopedAPI("notify", tel),
	}
	m.send = m.sendSmtp
	return m
}

func (m Mailer) sendSmtp(mail *email.Email) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)
	err := mail.Send(addr, smtp.PlainAuth("", m.cfg.EmailAddress, m.cfg.Password, m.cfg.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	return err
}

// SendDigest mails the digest of `reports`, it does nothing when no
// report has a promotion.
func (m Mailer) SendDigest(ctx context.Context, reports []crawler.ProductionReport) error {
	ctx, span := tracer.Start(ctx, "notify:SendDigest")
	defer span.End()

	body, ok := RenderDigest(reports, m.clock)
	if !ok {
		m.tel.ReportDebug(report_notify_send, "nothing to send")
		return nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Plateanet Crawler <%s>", m.cfg.EmailAddress)
	mail.To = m.cfg.To
	mail.Subject = fmt.Sprintf("Plateanet promotions %s", m.clock.Now().Format("02/01/2006"))
	mail.Text = []byte(body)

	err := m.send(mail)
	if err != nil {
		m.tel.ReportBroken(report_notify_send, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}
