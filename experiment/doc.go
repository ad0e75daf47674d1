// Package experiment assembles the runtime objects of a machine-learning run
// from a declarative configuration.
//
// An experiment config names each component (model, dataset, environment,
// loss, step function, callbacks, savers) by a package/class reference plus
// construction arguments. The assembly layer resolves those references
// against a typed plugin registry, injects cross-cutting collaborators, and
// merges everything into an immutable-after-construction context.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - PluginRegistry: Explicit mapping from package/class identifiers to
//     typed factory functions, one family per component kind. Plugins
//     register at startup; unresolved references fail assembly.
//   - CallbackRegistry / SaverRegistry: Ordered, name-keyed collections of
//     constructed instances. Construction order matters: a callback may
//     reference earlier callbacks by name through its metrics kwarg.
//   - Device: The compute placement, chosen once per run (first accelerator
//     when available, CPU when forced or none found).
//   - Provider: Batching wrapper around a dataset, one per split. Samples
//     are zip-collated into parallel input/label sequences.
//   - ExperimentContext and its layers TrainingContext, PredictionContext,
//     ProcessorContext: the assembled run state.
//
// # Quick Start
//
//	experiment.RegisterModel("models", "LSTM", NewLSTM)
//	experiment.RegisterDataset("datasets", "Sentences", NewSentences)
//
//	cfg, err := experiment.LoadConfig("experiment.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tc, err := experiment.NewTrainingContext(cfg, []string{"train", "dev"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(tc.EpochStart, tc.Device)
//
// All failures during assembly are immediate and fatal: unresolvable
// component references, missing required config keys, a missing model path
// for prediction. Nothing is retried.
package experiment
