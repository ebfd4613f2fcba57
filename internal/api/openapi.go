package api

import (
	"github.com/wayfound/atlas/internal/config"
	"github.com/wayfound/atlas/pkg/openapi"
)

// buildSpec constructs the OpenAPI document for the full route surface.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(domainSchemas())
	addClassificationPaths(spec)
	addAnalyticsPaths(spec)
	addModelPaths(spec)

	return spec
}

func addClassificationPaths(spec *openapi.Spec) {
	spec.Paths["/classifications"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Classify text",
			Tags:        []string{"classifications"},
			RequestBody: openapi.RequestBodyJSON("ClassifyCommand", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Stored classification", "Classification"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
	}

	spec.Paths["/classifications/batch"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Classify multiple texts",
			Tags:        []string{"classifications"},
			RequestBody: openapi.RequestBodyJSON("BatchCommand", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Per-item results in input order", "BatchResult"),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
	}

	spec.Paths["/classifications/predict"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Predict category without persisting",
			Tags:        []string{"classifications"},
			RequestBody: openapi.RequestBodyJSON("PredictCommand", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prediction", "Prediction"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
	}

	idParam := openapi.PathParam("id", "uuid", "Classification identifier")
	spec.Paths["/classifications/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get classification by id",
			Tags:       []string{"classifications"},
			Parameters: []*openapi.Parameter{idParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Classification", "Classification"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Correct classification categories",
			Tags:        []string{"classifications"},
			Parameters:  []*openapi.Parameter{idParam},
			RequestBody: openapi.RequestBodyJSON("UpdateCommand", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Corrected classification", "Classification"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete classification",
			Tags:       []string{"classifications"},
			Parameters: []*openapi.Parameter{idParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Deletion result", "DeleteResult"),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
	}

	spec.Paths["/classifications/analysis/{id}"] = &openapi.PathItem{
		Get: listOperation("List classifications for a text analysis",
			openapi.PathParam("id", "uuid", "Text analysis identifier")),
	}
	spec.Paths["/classifications/user/{id}"] = &openapi.PathItem{
		Get: listOperation("List a user's classifications",
			openapi.PathParam("id", "uuid", "User identifier")),
	}
	spec.Paths["/classifications/category/{category}"] = &openapi.PathItem{
		Get: listOperation("List classifications by top category",
			openapi.PathParam("category", "", "Category label")),
	}
	spec.Paths["/classifications/model/{type}"] = &openapi.PathItem{
		Get: listOperation("List classifications by model type",
			openapi.PathParam("type", "", "Model type")),
	}
	spec.Paths["/classifications/confidence"] = &openapi.PathItem{
		Get: listOperation("List classifications within a confidence range",
			openapi.QueryParam("min", "number", "Inclusive lower bound, default 0", false),
			openapi.QueryParam("max", "number", "Inclusive upper bound, default 1", false)),
	}
}

func addAnalyticsPaths(spec *openapi.Spec) {
	timeframe := openapi.QueryParam("timeframe", "string",
		"Window as <integer><h|d|w>, default 24h", false)

	spec.Paths["/analytics/stats"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Classification statistics",
			Tags:    []string{"analytics"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Corpus statistics", "Stats"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
	}
	spec.Paths["/analytics/trending"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Trending categories",
			Tags:    []string{"analytics"},
			Parameters: []*openapi.Parameter{
				timeframe,
				openapi.QueryParam("limit", "integer", "Maximum categories, default 10", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Ranked categories", "TrendingCategory"),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
	}
	spec.Paths["/analytics/insights"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Windowed classification insights",
			Tags:       []string{"analytics"},
			Parameters: []*openapi.Parameter{timeframe},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Windowed insights", "Insights"),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
	}
}

func addModelPaths(spec *openapi.Spec) {
	typeParam := openapi.PathParam("type", "", "Model type")

	spec.Paths["/models"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List model training state",
			Tags:    []string{"models"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Model statuses", "ModelStatus"),
			},
		},
	}
	spec.Paths["/models/{type}/train"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Train a model",
			Tags:        []string{"models"},
			Parameters:  []*openapi.Parameter{typeParam},
			RequestBody: openapi.RequestBodyJSON("TrainingRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Published model version", "TrainResult"),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("ServerError"),
			},
		},
	}
	spec.Paths["/models/{type}/performance"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Model evaluation metrics",
			Tags:       []string{"models"},
			Parameters: []*openapi.Parameter{typeParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Evaluation metrics", "PerformanceResponse"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/models/{type}/importance"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Model feature importance",
			Tags:       []string{"models"},
			Parameters: []*openapi.Parameter{typeParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Feature importance per category", "ImportanceResponse"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/models/{type}/history"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Superseded model versions",
			Tags:       []string{"models"},
			Parameters: []*openapi.Parameter{typeParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Version history, oldest first", "HistoryEntry"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func listOperation(summary string, params ...*openapi.Parameter) *openapi.Operation {
	params = append(params,
		openapi.QueryParam("page", "integer", "1-indexed page number", false),
		openapi.QueryParam("page_size", "integer", "Items per page", false),
	)
	return &openapi.Operation{
		Summary:    summary,
		Tags:       []string{"classifications"},
		Parameters: params,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paged classifications", "Classification"),
			400: openapi.ResponseRef("BadRequest"),
			500: openapi.ResponseRef("ServerError"),
		},
	}
}

func domainSchemas() map[string]*openapi.Schema {
	score := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"label": {Type: "string"},
			"score": {Type: "number"},
		},
		Required: []string{"label", "score"},
	}

	return map[string]*openapi.Schema{
		"CategoryScore": score,
		"Classification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string", Format: "uuid"},
				"textAnalysisId": {Type: "string", Format: "uuid"},
				"userId":         {Type: "string", Format: "uuid"},
				"inputText":      {Type: "string"},
				"modelType":      {Type: "string"},
				"modelVersion":   {Type: "integer"},
				"categories":     {Type: "array", Items: openapi.SchemaRef("CategoryScore")},
				"confidence":     {Type: "number"},
				"createdAt":      {Type: "string", Format: "date-time"},
				"correctedAt":    {Type: "string", Format: "date-time"},
				"correctionHistory": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"categories":  {Type: "array", Items: openapi.SchemaRef("CategoryScore")},
							"correctedAt": {Type: "string", Format: "date-time"},
						},
					},
				},
			},
		},
		"ClassifyCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text":           {Type: "string"},
				"modelType":      {Type: "string"},
				"textAnalysisId": {Type: "string", Format: "uuid"},
				"userId":         {Type: "string", Format: "uuid"},
			},
			Required: []string{"text"},
		},
		"PredictCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text":      {Type: "string"},
				"modelType": {Type: "string"},
			},
			Required: []string{"text"},
		},
		"BatchCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"items": {Type: "array", Items: openapi.SchemaRef("ClassifyCommand")},
			},
			Required: []string{"items"},
		},
		"BatchResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"classification": openapi.SchemaRef("Classification"),
				"error":          {Type: "string"},
			},
		},
		"Prediction": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"modelType":    {Type: "string"},
				"modelVersion": {Type: "integer"},
				"categories":   {Type: "array", Items: openapi.SchemaRef("CategoryScore")},
				"confidence":   {Type: "number"},
			},
		},
		"UpdateCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"categories": {Type: "array", Items: openapi.SchemaRef("CategoryScore")},
			},
			Required: []string{"categories"},
		},
		"DeleteResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"deleted": {Type: "boolean"},
			},
		},
		"TrainingRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"examples": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"text":  {Type: "string"},
							"label": {Type: "string"},
						},
						Required: []string{"text", "label"},
					},
				},
				"options": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"holdoutRatio": {Type: "number"},
						"smoothing":    {Type: "number"},
						"minDocFreq":   {Type: "integer"},
						"topFeatures":  {Type: "integer"},
					},
				},
			},
			Required: []string{"examples"},
		},
		"Performance": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"accuracy":          {Type: "number"},
				"precision":         {Type: "object"},
				"recall":            {Type: "object"},
				"confusionMatrix":   {Type: "object"},
				"evaluatedExamples": {Type: "integer"},
			},
		},
		"TrainResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"modelType":        {Type: "string"},
				"version":          {Type: "integer"},
				"trainedAt":        {Type: "string", Format: "date-time"},
				"trainingExamples": {Type: "integer"},
				"performance":      openapi.SchemaRef("Performance"),
			},
		},
		"PerformanceResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"modelType":   {Type: "string"},
				"version":     {Type: "integer"},
				"trainedAt":   {Type: "string", Format: "date-time"},
				"performance": openapi.SchemaRef("Performance"),
			},
		},
		"ImportanceResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"modelType": {Type: "string"},
				"version":   {Type: "integer"},
				"categories": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"category": {Type: "string"},
							"features": {
								Type: "array",
								Items: &openapi.Schema{
									Type: "object",
									Properties: map[string]*openapi.Schema{
										"term":   {Type: "string"},
										"weight": {Type: "number"},
									},
								},
							},
						},
					},
				},
			},
		},
		"HistoryEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"version":          {Type: "integer"},
				"trainedAt":        {Type: "string", Format: "date-time"},
				"trainingExamples": {Type: "integer"},
				"accuracy":         {Type: "number"},
			},
		},
		"ModelStatus": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"modelType": {Type: "string"},
				"trained":   {Type: "boolean"},
				"version":   {Type: "integer"},
				"trainedAt": {Type: "string", Format: "date-time"},
			},
		},
		"Stats": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"totalCount":        {Type: "integer"},
				"countByCategory":   {Type: "object"},
				"countByModelType":  {Type: "object"},
				"averageConfidence": {Type: "number"},
			},
		},
		"TrendingCategory": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"category": {Type: "string"},
				"count":    {Type: "integer"},
				"lastSeen": {Type: "string", Format: "date-time"},
			},
		},
		"Insights": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"timeframe":         {Type: "string"},
				"volume":            {Type: "integer"},
				"averageConfidence": {Type: "number"},
				"topCategories":     {Type: "array", Items: openapi.SchemaRef("TrendingCategory")},
				"confidenceHistogram": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"range": {Type: "string"},
							"count": {Type: "integer"},
						},
					},
				},
			},
		},
	}
}
