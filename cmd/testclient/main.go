// testclient exercises a running medbridge server end to end: it creates a
// conversation, posts a message in each direction and prints what came
// back translated.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	serverAddr  = flag.String("addr", "http://localhost:8080", "medbridge server base URL")
	doctorLang  = flag.String("doctor", "en", "Doctor language code")
	patientLang = flag.String("patient", "es", "Patient language code")
	doctorText  = flag.String("doctor-text", "Hello, how are you feeling today?", "Message sent as the doctor")
	patientText = flag.String("patient-text", "Me duele la cabeza desde ayer.", "Message sent as the patient")
)

type message struct {
	Role              string `json:"role"`
	Content           string `json:"content"`
	TranslatedContent string `json:"translatedContent"`
	SourceLanguage    string `json:"sourceLanguage"`
	TargetLanguage    string `json:"targetLanguage"`
}

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	client := &http.Client{}

	logger.WithFields(logrus.Fields{
		"server":  *serverAddr,
		"doctor":  *doctorLang,
		"patient": *patientLang,
	}).Info("Creating conversation...")

	var conv struct {
		ID string `json:"id"`
	}
	err := postJSON(ctx, client, *serverAddr+"/api/conversations", map[string]string{
		"doctorLanguage":  *doctorLang,
		"patientLanguage": *patientLang,
	}, &conv)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create conversation")
	}
	logger.WithField("conversation_id", conv.ID).Info("Conversation created")

	for _, m := range []message{
		{Role: "doctor", Content: *doctorText},
		{Role: "patient", Content: *patientText},
	} {
		var stored message
		err := postJSON(ctx, client, *serverAddr+"/api/conversations/"+conv.ID+"/messages", map[string]string{
			"role":    m.Role,
			"content": m.Content,
		}, &stored)
		if err != nil {
			logger.WithError(err).WithField("role", m.Role).Fatal("Failed to send message")
		}

		translated := stored.TranslatedContent
		if translated == "" {
			translated = "(no translation)"
		}
		fmt.Printf("[%s %s->%s] %s\n    -> %s\n",
			stored.Role, stored.SourceLanguage, stored.TargetLanguage, stored.Content, translated)
	}
}

func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
