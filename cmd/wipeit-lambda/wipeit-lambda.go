package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"net/http"
	"os"
	"strings"
	"wipeit/internal/cleaner"
	"wipeit/internal/connectors"
	"wipeit/internal/destroyer"
	"wipeit/internal/env"
	"wipeit/internal/inventory"
	"wipeit/internal/report"
	"wipeit/internal/resources"
	"wipeit/internal/server"
)

var registry = cleaner.DefaultRegistry(cleaner.DefaultOptions())

var sessions server.SessionFactory = connectors.GetAWSSession

func response(status int, v interface{}) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func errorResponse(status int, err error) (events.APIGatewayProxyResponse, error) {
	return response(status, server.ErrorResponse{Success: false, Error: err.Error()})
}

func requestBody(request events.APIGatewayProxyRequest) (string, error) {
	if !request.IsBase64Encoded {
		return request.Body, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(request.Body)
	return string(decoded), err
}

func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body, err := requestBody(request)
	if err != nil {
		return errorResponse(http.StatusBadRequest, err)
	}
	inventoryRequest := strings.HasSuffix(request.Path, "/inventory")
	var req resources.Request
	if !inventoryRequest || strings.TrimSpace(body) != "" {
		if req, err = resources.ParseRequest(strings.NewReader(body)); err != nil {
			return errorResponse(http.StatusBadRequest, err)
		}
	}
	region := req.Region
	if region == "" {
		region = env.Config.Region
	}

	clients, err := sessions(req.Profile, region)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err)
	}

	if inventoryRequest {
		result := inventory.New(clients).Discover(ctx)
		return response(http.StatusOK, server.InventoryResponse{Success: true, Result: result})
	}

	outcomes := destroyer.New(clients, registry).Run(ctx, req.Selections)
	return response(http.StatusOK, server.DeleteResponse{Success: true, Report: report.New(outcomes)})
}

func main() {
	env.Config.Region = os.Getenv("AWS_REGION")
	if region := os.Getenv("REGION"); region != "" {
		env.Config.Region = region
	}
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}
	log.Debug().Msgf("starting in %s", env.Config.Region)
	lambda.Start(handler)
}
