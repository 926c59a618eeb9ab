// pollclient creates a recording bot through a running service instance and
// polls its status until the bot reaches a terminal state, printing the
// summary headline numbers at the end.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

func main() {
	serviceURL := flag.String("service", "http://localhost:8080", "base URL of the meeting assistant service")
	meetingURL := flag.String("meeting", "", "meeting URL to send the bot into")
	botID := flag.String("bot", "", "poll an existing bot instead of creating one")
	interval := flag.Duration("interval", 10*time.Second, "polling interval")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}

	id := *botID
	if id == "" {
		if *meetingURL == "" {
			log.Fatal("either -meeting or -bot is required")
		}
		id = createBot(client, *serviceURL, *meetingURL)
	}

	log.Printf("Polling bot %s every %s", id, *interval)

	for {
		record := fetchBot(client, *serviceURL, id)
		status := record.Get("status").String()
		log.Printf("Bot %s status: %s", id, status)

		if record.Get("is_complete").Bool() || status == "fatal" {
			printSummary(record)
			return
		}
		time.Sleep(*interval)
	}
}

func createBot(client *http.Client, serviceURL, meetingURL string) string {
	payload, _ := json.Marshal(map[string]string{"meeting_url": meetingURL})
	resp, err := client.Post(serviceURL+"/api/bot", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("create bot failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		log.Fatalf("read create response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("create bot failed: %d %s", resp.StatusCode, buf.String())
	}

	body := gjson.ParseBytes(buf.Bytes())
	id := body.Get("bot_id").String()
	log.Printf("Bot created: %s (status %s)", id, body.Get("status").String())
	return id
}

func fetchBot(client *http.Client, serviceURL, id string) gjson.Result {
	resp, err := client.Get(serviceURL + "/api/bot/" + id)
	if err != nil {
		log.Fatalf("fetch bot failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		log.Fatalf("read bot response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("fetch bot failed: %d %s", resp.StatusCode, buf.String())
	}
	return gjson.ParseBytes(buf.Bytes())
}

func printSummary(record gjson.Result) {
	fmt.Println("Meeting complete")
	fmt.Printf("  duration:      %s\n", record.Get("duration.formatted").String())
	fmt.Printf("  participants:  %d\n", record.Get("participant_count").Int())
	fmt.Printf("  utterances:    %d\n", record.Get("transcript_utterance_count").Int())
	fmt.Printf("  words:         %d\n", record.Get("transcript_word_count").Int())
	fmt.Printf("  chat messages: %d\n", record.Get("chat_message_count").Int())

	if record.Get("summary.available").Bool() {
		keywords := record.Get("summary.keywords").Array()
		for i, kw := range keywords {
			if i == 0 {
				fmt.Print("  keywords:      ")
			} else {
				fmt.Print(", ")
			}
			fmt.Printf("%s (%d)", kw.Get("word").String(), kw.Get("count").Int())
		}
		if len(keywords) > 0 {
			fmt.Println()
		}
	}
}
