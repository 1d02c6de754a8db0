package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/planner"
)

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*planner.Response, error)

type tool struct {
	name        string
	description string
	params      reflect.Type
	handle      toolHandler
}

// ToolArgument describes one field of a tool's argument object.
type ToolArgument struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Arguments   []ToolArgument `json:"arguments"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	return nil
}

func newTool[T any](name, description string, fn func(context.Context, T) (*planner.Response, error)) tool {
	return tool{
		name:        name,
		description: description,
		params:      reflect.TypeOf((*T)(nil)).Elem(),
		handle: func(ctx context.Context, req *protocol.CallToolRequest) (*planner.Response, error) {
			var params T
			if err := extractParams(req, &params); err != nil {
				return nil, apperrors.NewInvalidInputError("invalid parameters: %v", err)
			}
			return fn(ctx, params)
		},
	}
}

func newListTool(name, description string, fn func(context.Context) (*planner.Response, error)) tool {
	return tool{
		name:        name,
		description: description,
		handle: func(ctx context.Context, _ *protocol.CallToolRequest) (*planner.Response, error) {
			return fn(ctx)
		},
	}
}

func (s *AharaServer) registerTools() error {
	svc := s.service
	tools := []tool{
		newTool("score_food", "Score one food for a patient with the ANH scorer", svc.ScoreFood),
		newTool("rank_foods", "Rank catalog foods for a patient, optionally by category and minimum score", svc.RankFoods),
		newTool("compose_meal", "Compose a meal of a given type that satisfies the patient's constraints", svc.ComposeMeal),
		newTool("daily_plan", "Compose breakfast, lunch, dinner and a snack for a patient", svc.DailyPlan),
		newTool("optimize_meal", "Swap the weakest item of a meal for a better food of the same category", svc.OptimizeMeal),
		newTool("validate_pair", "Check two foods for viruddha incompatibility", svc.ValidatePair),
		newTool("validate_meal", "Check every pair of foods in a meal for incompatibility", svc.ValidateMeal),
		newTool("validate_addition", "Check a food against the foods already in a meal", svc.ValidateAddition),
		newTool("check_time_of_day", "Check whether a food suits the time of day it is eaten", svc.CheckTimeOfDay),
		newListTool("list_rules", "List the incompatibility rules and those skipped as malformed", svc.ListRules),
		newListTool("rule_graph", "Export the pair rules as a graph of foods and categories", svc.RuleGraph),
		newTool("score_recipe", "Aggregate a recipe and score it for a patient", svc.ScoreRecipe),
		newTool("top_recipes", "Rank the recipes a patient's diet and condition allow", svc.TopRecipes),
		newListTool("list_recipes", "List the recipe catalog", svc.ListRecipes),
		newListTool("list_conditions", "List health conditions with their dietary guidance", svc.ListConditions),
		newTool("find_substitutes", "Rank substitutes for a food under a substitution reason", svc.FindSubstitutes),
		newTool("recipe_substitutes", "Find substitutes for every ingredient of a recipe", svc.RecipeSubstitutes),
		newTool("allergy_substitutes", "Find substitutes for a food that conflicts with the patient's allergies", svc.AllergySubstitutes),
		newListTool("list_quiz_questions", "List the prakriti questionnaire", svc.ListQuestions),
		newTool("assess_prakriti", "Score questionnaire answers into a dosha constitution", svc.AssessPrakriti),
		newTool("quiz_history", "List a patient's past assessments", svc.QuizHistory),
		newTool("save_patient", "Create or update a patient profile", svc.SavePatient),
		newTool("get_patient", "Fetch a stored patient profile", svc.GetPatient),
		newTool("list_patients", "List stored patients, most recently updated first", svc.ListPatients),
		newTool("save_meal", "Record a meal a patient ate", svc.SaveMeal),
		newTool("get_meals", "List a patient's recorded meals within an optional date range", svc.GetMeals),
	}

	s.tools = make(map[string]tool, len(tools))
	for _, t := range tools {
		if _, dup := s.tools[t.name]; dup {
			return fmt.Errorf("tool %s registered twice", t.name)
		}
		s.tools[t.name] = t
		s.order = append(s.order, t.name)
		s.logger.Debug("Registered tool", zap.String("tool", t.name))
	}
	return nil
}

func (s *AharaServer) handleListTools(w http.ResponseWriter, r *http.Request) {
	infos := make([]ToolInfo, 0, len(s.order))
	for _, name := range s.order {
		t := s.tools[name]
		infos = append(infos, ToolInfo{
			Name:        t.name,
			Description: t.description,
			Arguments:   describeArguments(t.params),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"tools": infos}); err != nil {
		s.writeError(w, apperrors.Wrap(err, "failed to encode tools"))
	}
}

// describeArguments lists the JSON fields of a request struct, flattening embedded structs.
// A field is required when its validate tag says so.
func describeArguments(t reflect.Type) []ToolArgument {
	args := []ToolArgument{}
	if t == nil || t.Kind() != reflect.Struct {
		return args
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			args = append(args, describeArguments(f.Type)...)
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		rules := strings.Split(f.Tag.Get("validate"), ",")
		args = append(args, ToolArgument{
			Name:     name,
			Type:     jsonType(f.Type),
			Required: len(rules) > 0 && rules[0] == "required",
		})
	}
	sort.SliceStable(args, func(i, j int) bool {
		return args[i].Required && !args[j].Required
	})
	return args
}

func jsonType(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
