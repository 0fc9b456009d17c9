/*
Package config loads the settings of a transform run.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |  JSON   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🎯 Purpose:
  - Read .collectionlint.yaml, .yml, .json or .hcl
  - Reject unknown fields in every format
  - Apply defaults and check required values in Validate
  - Merge inline assertions with an assertions file

🔄 Flow:
 1. Load picks a parser by file extension and decodes the file
 2. The command line overrides whatever flags were set
 3. Validate fills defaults: mode collection, url variable baseUrl, output "."
 4. LoadAssertions and TransformOptions hand the result to the transform

🔍 Example:

	cfg, err := config.Load(ctx, ".collectionlint.yaml")
	if err != nil {
		return err
	}
	cfg.Version = flagVersion
	if err := cfg.Validate(ctx); err != nil {
		return err
	}
*/
package config
