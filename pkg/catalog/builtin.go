package catalog

// Builtin returns the base rule catalog, grounded on
// original_source/src/rule.py's TensorflowRules._rules (generalized away
// from its TensorFlow-specific naming) plus original_source's
// buildcleaner/rule.py PackageFunctions. Domain overlays are expected to
// extend this with additional or replacement rule kinds via Merge.
func Builtin() *Catalog {
	rules := map[string]RuleSchema{
		"cc_library": {
			Kind:             "cc_library",
			LabelListArgs:    []string{"srcs", "hdrs", "deps", "textual_hdrs"},
			StringListArgs:   []string{"copts", "linkopts", "features", "includes"},
			StringArgs:       []string{"strip_include_prefix"},
			Visibility:       true,
		},
		"cc_binary": {
			Kind:           "cc_binary",
			LabelListArgs:  []string{"srcs", "deps", "data"},
			StringListArgs: []string{"copts", "linkopts"},
			Visibility:     true,
		},
		"cc_import": {
			Kind:          "cc_import",
			LabelArgs:     []string{"static_library", "shared_library"},
			LabelListArgs: []string{"hdrs", "deps"},
			Visibility:    true,
		},
		"cc_shared_library": {
			Kind:           "cc_shared_library",
			LabelListArgs:  []string{"roots", "deps", "dynamic_deps"},
			StringArgs:     []string{"shared_lib_name"},
			StringListArgs: []string{"features"},
			Visibility:     true,
		},
		"cc_header_only_library": {
			Kind:          "cc_header_only_library",
			LabelListArgs: []string{"deps", "extra_deps"},
			Macro:         true,
			Visibility:    true,
		},
		"filegroup": {
			Kind:          "filegroup",
			LabelListArgs: []string{"srcs"},
			StringListArgs: []string{"visibility"},
			Visibility:    true,
		},
		"alias": {
			Kind:       "alias",
			LabelArgs:  []string{"actual"},
			Visibility: true,
		},
		"genrule": {
			Kind:          "genrule",
			LabelListArgs: []string{"srcs", "tools"},
			OutLabelListArgs: []string{"outs"},
			StringArgs:    []string{"cmd"},
			Visibility:    true,
		},
		"bind": {
			Kind:      "bind",
			LabelArgs: []string{"actual"},
			NoEmit:    true,
		},
		"proto_library": {
			Kind:          "proto_library",
			LabelListArgs: []string{"srcs", "deps"},
			Visibility:    true,
		},
		"proto_gen": {
			Kind:           "proto_gen",
			LabelListArgs:  []string{"srcs", "deps"},
			StringListArgs: []string{"protoc_gen_args"},
			Macro:          true,
			Visibility:     true,
		},
		"_generate_cc": {
			Kind:          "_generate_cc",
			LabelListArgs: []string{"srcs", "deps"},
			LabelArgs:     []string{"plugin"},
		},
		"generate_cc": {
			Kind:          "generate_cc",
			LabelListArgs: []string{"srcs", "deps"},
			BoolArgs:      []string{"well_known_protos"},
			Macro:         true,
			Visibility:    true,
		},
		"_transitive_hdrs": {
			Kind:          "_transitive_hdrs",
			LabelListArgs: []string{"deps"},
		},
		"transitive_hdrs": {
			Kind:          "transitive_hdrs",
			LabelListArgs: []string{"deps"},
			Macro:         true,
			Visibility:    true,
		},
		"_transitive_parameters_library": {
			Kind:          "_transitive_parameters_library",
			LabelListArgs: []string{"original_deps"},
		},
		"td_library": {
			Kind:          "td_library",
			LabelListArgs: []string{"srcs", "deps"},
			Visibility:    true,
		},
		"gentbl_rule": {
			Kind:           "gentbl_rule",
			LabelArgs:      []string{"td_file"},
			LabelListArgs:  []string{"deps"},
			StringListArgs: []string{"tbl_outs"},
			Macro:          true,
			Visibility:     true,
		},
		"tf_gen_options_header": {
			Kind:          "tf_gen_options_header",
			LabelListArgs: []string{"deps"},
			OutLabelArgs:  []string{"output_header"},
			Macro:         true,
		},
		"config_setting": {
			Kind:          "config_setting",
			StrStrMapArgs: []string{"values"},
			Visibility:    true,
		},
		"bool_flag": {
			Kind:       "bool_flag",
			BoolArgs:   []string{"build_setting_default"},
			Visibility: true,
		},
		"bool_setting": {
			Kind:     "bool_setting",
			BoolArgs: []string{"build_setting_default"},
		},
		"string_flag": {
			Kind:       "string_flag",
			StringArgs: []string{"build_setting_default"},
			Visibility: true,
		},
		"py_binary": {
			Kind:          "py_binary",
			LabelListArgs: []string{"srcs", "deps", "data"},
			Visibility:    true,
		},
		"pkg_tar": {
			Kind:           "pkg_tar",
			LabelListArgs:  []string{"srcs", "deps"},
			StringArgs:     []string{"package_dir"},
			Macro:          true,
			Visibility:     true,
		},
		"pkg_tar_impl": {
			Kind:          "pkg_tar_impl",
			LabelListArgs: []string{"srcs", "deps"},
			StringArgs:    []string{"package_dir"},
			BoolArgs:      []string{"private_stamp_detect"},
		},
		"build_test": {
			Kind:          "build_test",
			LabelListArgs: []string{"targets"},
			Macro:         true,
			Visibility:    true,
		},
		"_empty_test": {
			Kind: "_empty_test",
		},
		"tfcompile_model_library": {
			Kind:          "tfcompile_model_library",
			LabelListArgs: []string{"deps"},
			LabelArgs:     []string{"cpp_class"},
			Macro:         true,
			Visibility:    true,
		},
	}

	// "really ignored" rules per original_source/src/rule.py's
	// _ignored_rules (bool_flag/bool_setting/string_flag are explicitly
	// NOT in this set there — they are processed rules above).
	ignored := []string{
		"py_library",
		"toolchain_type",
		"adapt_proto_library",
		"armeabi_cc_toolchain_config",
		"cc_toolchain_alias",
		"cc_toolchain_config",
		"cc_toolchain",
		"cc_toolchain_suite",
		"compiler_flag",
		"constraint_setting",
		"constraint_value",
		"enable_cuda_flag",
		"enum_targets_gen",
		"expand_template",
		"package",
		"platform",
		"py_runtime_pair",
		"py_runtime",
		"_write_file",
	}

	return New(rules, ignored)
}
