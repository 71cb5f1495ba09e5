package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// promptForProduct asks for a product URL or name.
func promptForProduct() (string, error) {
	var input string
	prompt := &survey.Input{
		Message: "Product URL or name:",
		Help:    "Paste a store link (e.g. an Amazon product page) or type the product name.",
	}

	err := survey.AskOne(prompt, &input, survey.WithValidator(func(val interface{}) error {
		s, _ := val.(string)
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("product cannot be empty")
		}
		return nil
	}))
	if err != nil {
		return "", fmt.Errorf("reading product: %w", err)
	}
	return strings.TrimSpace(input), nil
}
