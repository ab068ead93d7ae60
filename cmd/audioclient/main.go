// Manual test client: uploads a consultation recording to the service
// and optionally approves the returned plan section.
package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WAV header is 44 bytes for standard PCM files
const wavHeaderSize = 44

func main() {
	audioFile := flag.String("audio", "../../testdata/consultation.wav", "Path to the recording to upload")
	serverURL := flag.String("server", "http://localhost:8080", "Service base URL")
	sectionFile := flag.String("reference", "", "Optional reference section text file for NER scoring")
	userEmail := flag.String("email", "", "Recipient for the appointment email")
	approve := flag.Bool("approve", false, "Approve the returned plan section")
	sendEmail := flag.Bool("send", false, "Actually send the appointment email on approval")
	flag.Parse()

	if strings.EqualFold(filepath.Ext(*audioFile), ".wav") {
		inspectWAV(*audioFile)
	}

	client := &http.Client{Timeout: 5 * time.Minute}

	result := processAudio(client, *serverURL, *audioFile, *sectionFile)

	var plan string
	if sections, ok := result["soap_sections"].(map[string]any); ok {
		plan, _ = sections["Plan"].(string)
	}
	if !*approve || plan == "" {
		return
	}

	log.Printf("Approving plan section: %s", plan)
	approvePlan(client, *serverURL, plan, *userEmail, *sendEmail)
}

// inspectWAV prints the header info so sample rate mismatches surface
// before a long upload.
func inspectWAV(path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open audio file: %v", err)
	}
	defer f.Close()

	header := make([]byte, wavHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		log.Fatalf("Failed to read WAV header: %v", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		log.Fatal("Not a valid WAV file")
	}

	audioFormat := binary.LittleEndian.Uint16(header[20:22])
	numChannels := binary.LittleEndian.Uint16(header[22:24])
	sampleRate := binary.LittleEndian.Uint32(header[24:28])
	bitsPerSample := binary.LittleEndian.Uint16(header[34:36])

	log.Printf("WAV file: format=%d channels=%d sampleRate=%d bitsPerSample=%d",
		audioFormat, numChannels, sampleRate, bitsPerSample)

	if audioFormat != 1 { // PCM
		log.Fatal("Only PCM format supported")
	}
	if sampleRate != 16000 {
		log.Printf("Warning: Sample rate is %d Hz, expected 16000 Hz", sampleRate)
	}
}

func processAudio(client *http.Client, serverURL, audioFile, sectionFile string) map[string]any {
	f, err := os.Open(audioFile)
	if err != nil {
		log.Fatalf("Failed to open audio file: %v", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("audio", filepath.Base(audioFile))
	if err != nil {
		log.Fatalf("Failed to build upload: %v", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		log.Fatalf("Failed to read audio file: %v", err)
	}
	if sectionFile != "" {
		text, err := os.ReadFile(sectionFile)
		if err != nil {
			log.Fatalf("Failed to read reference file: %v", err)
		}
		mw.WriteField("section_text", string(text))
	}
	mw.Close()

	resp, err := client.Post(serverURL+"/process_audio", mw.FormDataContentType(), &body)
	if err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Processing failed (%d): %s", resp.StatusCode, raw)
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Fatalf("Unexpected response: %v", err)
	}

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))
	return result
}

func approvePlan(client *http.Client, serverURL, plan, userEmail string, sendEmail bool) {
	payload, _ := json.Marshal(map[string]any{
		"plan_section": plan,
		"user_email":   userEmail,
		"send_email":   sendEmail,
	})

	resp, err := client.Post(serverURL+"/approve_plan", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Approval failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Approval failed (%d): %s", resp.StatusCode, raw)
	}
	fmt.Println(string(raw))
}
