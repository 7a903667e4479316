package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	taskNameKey contextKey = "task_name"
	sceneIDKey  contextKey = "scene_id"
)

// WithRunID annotates context with the correlation identifier for one plugin run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTaskName annotates context with the dispatched task name.
func WithTaskName(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, taskNameKey, name)
}

// TaskNameFromContext returns the dispatched task name if present.
func TaskNameFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(taskNameKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSceneID annotates context with the scene being processed.
func WithSceneID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, sceneIDKey, id)
}

// SceneIDFromContext extracts the scene identifier if present.
func SceneIDFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(sceneIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}
