package forbiddencalls

import (
	"log"
	"os"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			os.Exit(3) // No want
		}
	}()

	s, err := beginSubmit(formState{input: "example.com"})
	if err != nil {
		log.Fatal(err) // No want
	}

	if mustBeReady(settleOrDie(s, nil)) == "" {
		os.Exit(1) // No want
	}
}

func init() {
	if os.Getenv("QR_FORM_STRICT") != "" {
		panic("strict form mode is not supported") // want "panic is forbidden"
	}
	if loadAPIBaseURL() == "" {
		log.Fatal("QR service address is required") // want "log.Fatal is forbidden outside main function"
	}
	if len(os.Args) > 3 {
		os.Exit(2) // want "os.Exit is forbidden outside main function"
	}
}
