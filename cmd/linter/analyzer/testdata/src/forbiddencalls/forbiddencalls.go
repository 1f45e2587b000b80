package forbiddencalls

import (
	"errors"
	"log"
	"os"
)

type formStatus int

const (
	statusIdle formStatus = iota
	statusSubmitting
	statusReady
	statusFailed
)

type formState struct {
	status formStatus
	input  string
	result string
}

var errSubmitInProgress = errors.New("submission already in progress")

func beginSubmit(s formState) (formState, error) {
	if s.status == statusSubmitting {
		return s, errSubmitInProgress
	}
	s.status = statusSubmitting
	s.result = ""
	return s, nil
}

func mustBeReady(s formState) string {
	if s.status != statusReady {
		panic("form is not ready") // want "panic is forbidden"
	}
	return s.result
}

func settleOrDie(s formState, err error) formState {
	if err != nil {
		log.Fatal(err) // want "log.Fatal is forbidden outside main function"
	}
	s.status = statusReady
	s.input = ""
	return s
}

func loadAPIBaseURL() string {
	baseURL := os.Getenv("QR_API_BASE_URL")
	if baseURL == "" {
		os.Exit(2) // want "os.Exit is forbidden outside main function"
	}
	return baseURL
}

func evictIdleForms(forms map[string]formState) {
	for id, s := range forms {
		if s.status == statusSubmitting {
			panic("evicting a submitting form " + id) // want "panic is forbidden"
		}
		if s.status == statusIdle || s.status == statusFailed {
			delete(forms, id)
		}
	}
}

func failOnInvalidInput(s formState) {
	go func() {
		if s.input == "" {
			log.Fatal("empty input") // want "log.Fatal is forbidden outside main function"
		}
	}()
}
