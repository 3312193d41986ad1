package nodepatch

import "go.uber.org/zap"

type Options struct {
	convertFunc func(value interface{}) interface{}
	logger      *zap.Logger
}

// The default options.
var DefaultOptions = Options{}

// WithConvertFunc creates a new option object with a given convert function.
//
// The convert function is applied to every value an operation attaches to
// or compares against the tree, including nested map and slice members.
// This can be used to support additional types by converting them into
// plain JSON values.
func (options Options) WithConvertFunc(convertFunc func(value interface{}) interface{}) Options {
	options.convertFunc = convertFunc
	return options
}

// WithLogger creates a new option object which logs applied and failed
// operations at debug level.
func (options Options) WithLogger(logger *zap.Logger) Options {
	options.logger = logger
	return options
}

func (options *Options) log() *zap.Logger {
	if options.logger == nil {
		return zap.NewNop()
	}
	return options.logger
}

func (options *Options) convert(value interface{}) interface{} {
	if options.convertFunc == nil {
		return value
	}
	value = options.convertFunc(value)
	switch typed := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(typed))
		for k, v := range typed {
			out[k] = options.convert(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, v := range typed {
			out[i] = options.convert(v)
		}
		return out
	}
	return value
}
