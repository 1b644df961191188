package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// StatusResponse is the body of GET /.
type StatusResponse struct {
	Message string `json:"message"`
}

// AskRequest is the body of POST /ask. Question is a pointer so that an
// absent field can be told apart from an empty string.
type AskRequest struct {
	Question *string `json:"question"`
}

// AskResponse is the success body of POST /ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{Message: StatusMessage})
}

func (s *Server) handleAsk(c *fiber.Ctx) error {
	question, err := parseAskRequest(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	answer, err := s.asker.Ask(c.UserContext(), question)
	if err != nil {
		s.log.WithError(err).WithField("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).Debug("ask failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: err.Error()})
	}

	return c.JSON(AskResponse{Answer: answer})
}

// parseAskRequest decodes a POST /ask body. The body must be a JSON object
// whose "question" member is a string; other members are ignored.
func parseAskRequest(body []byte) (string, error) {
	if len(body) == 0 {
		return "", fmt.Errorf("request body is required")
	}
	var req AskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "question" {
			return "", fmt.Errorf("question: must be a string")
		}
		return "", fmt.Errorf("request body must be a JSON object: %v", err)
	}
	if req.Question == nil {
		return "", fmt.Errorf("question: field required")
	}
	return *req.Question, nil
}
