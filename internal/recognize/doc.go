// Package recognize extracts raw card tokens from deck-list screenshots.
//
// The primary engine sends the image to a vision-language model through the
// OpenAI Responses API, with a prompt ladder that escalates on retries:
// later attempts focus on land counts and the screenshot edges where earlier
// reads tend to lose cards. An optional local OCR subprocess provides a
// second signal. Both engines produce the same token stream, parsed from
// JSON when the model cooperates and from plain deck-list lines when it
// does not.
package recognize
