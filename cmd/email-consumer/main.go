package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	gomail "gopkg.in/gomail.v2"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/config"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/queue"
)

// The email consumer drains the send_email queue and relays each
// message over SMTP. Delivery is at-least-once: a message redelivered
// after a crash may send a duplicate email.
func main() {
	log.Println("✅ Starting email consumer...")

	_ = godotenv.Load()
	cfg := config.Load()

	q, err := queue.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("❌ RabbitMQ connection failed: %v", err)
	}
	if !q.Enabled() {
		log.Fatal("❌ RABBITMQ_URL is required for the email consumer")
	}
	defer q.Close()

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	deliveries, err := q.Consume()
	if err != nil {
		log.Fatalf("❌ Failed to consume queue: %v", err)
	}

	log.Printf("📬 Waiting for messages on %q...", queue.QueueSendEmail)
	for d := range deliveries {
		var msg queue.EmailMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			log.Printf("❌ Dropping malformed message: %v", err)
			d.Nack(false, false)
			continue
		}

		if err := sendEmail(dialer, cfg.SMTPFrom, msg); err != nil {
			log.Printf("❌ Failed to send email to %s: %v", msg.Email, err)
			d.Nack(false, true)
			continue
		}

		log.Printf("✅ Sent %q to %s", msg.Subject, msg.Email)
		d.Ack(false)
	}
}

func sendEmail(dialer *gomail.Dialer, from string, msg queue.EmailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.Email)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Message)
	return dialer.DialAndSend(m)
}
