/*
Package operation runs transforms over batches of source documents.

	+-------------+      +-------------+      +-------------+
	|   source    | ---> |  Operation  | ---> |   output    |
	| (Documents) |      | (Transform) |      |  (Manager)  |
	+-------------+      +------+------+      +-------------+
	                            |
	                     +------+------+
	                     |   Runner    |
	                     | (sync/async)|
	                     +-------------+

🎯 Purpose:
  - Fetch each resolved document and run transform.Transform on it
  - Skip documents matched by an ignore pattern
  - Treat already processed collections as skipped, not failed
  - Write the collection and environment documents, or only compare them for status

🔄 Flow:
 1. source.Resolve expands the command line into documents
 2. OperationRunner.Run calls Execute once per document, concurrently in async mode
 3. Every document gets an Outcome; a bad document never stops the batch
 4. The Reporter prints outcomes in document order and Summarize totals them

🔍 Example:

	op, err := operation.NewTransformOperation(operation.Options{
		Transform: cfg.TransformOptions(assertions),
		Ignore:    cfg.Ignore,
		Writer:    mgr,
	})
	if err != nil {
		return err
	}
	outcomes, err := operation.NewRunner(logger, cfg.Async).
		WithReporter(reporter.Report).
		Run(ctx, op, docs)
*/
package operation
