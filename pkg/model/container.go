package model

// Package owns the direct Target/FileNode/GeneratedFileNode children that
// live in one build-file directory, plus package-level Functions
// (exports_files and similar).
type Package struct {
	Label string
	Repo  string
	Path  string

	Targets   map[string]Node
	Functions []*Function
}

// NewPackage allocates an empty package container.
func NewPackage(lbl, repo, path string) *Package {
	return &Package{Label: lbl, Repo: repo, Path: path, Targets: map[string]Node{}}
}

// Insert adds a node to the package, returning LabelCollisionError if the
// label is already claimed by a different node (invariant 1).
func (p *Package) Insert(n Node) error {
	if existing, ok := p.Targets[n.NodeLabel()]; ok && existing != n {
		return &LabelCollisionError{Label: n.NodeLabel()}
	}
	p.Targets[n.NodeLabel()] = n
	return nil
}

// Get returns the node under this package by label, or nil.
func (p *Package) Get(lbl string) Node {
	return p.Targets[lbl]
}

// Repository owns the packages nested under one repository root.
type Repository struct {
	Label    string
	Name     string
	Packages map[string]*Package
}

// NewRepository allocates an empty repository container.
func NewRepository(lbl, name string) *Repository {
	return &Repository{Label: lbl, Name: name, Packages: map[string]*Package{}}
}

// GetOrCreatePackage returns the existing package at path, creating it
// (set-default semantics) if absent.
func (r *Repository) GetOrCreatePackage(lbl, path string) *Package {
	if pkg, ok := r.Packages[lbl]; ok {
		return pkg
	}
	pkg := NewPackage(lbl, r.Name, path)
	r.Packages[lbl] = pkg
	return pkg
}

// Root is the sentinel owning every repository of one forest half
// (internal "" or external "@").
type Root struct {
	External     bool
	Repositories map[string]*Repository
}

// NewRoot allocates an empty root.
func NewRoot(external bool) *Root {
	return &Root{External: external, Repositories: map[string]*Repository{}}
}

// GetOrCreateRepository returns the existing repository by label, creating
// it if absent.
func (r *Root) GetOrCreateRepository(lbl, name string) *Repository {
	if repo, ok := r.Repositories[lbl]; ok {
		return repo
	}
	repo := NewRepository(lbl, name)
	r.Repositories[lbl] = repo
	return repo
}

// Forest holds the two-rooted package tree: Internal for the main
// repository and its dependencies, External for opaque "@repo" leaves.
type Forest struct {
	Internal *Root
	External *Root
}

// NewForest allocates an empty two-rooted forest.
func NewForest() *Forest {
	return &Forest{Internal: NewRoot(false), External: NewRoot(true)}
}

// AllPackages returns every package in both halves of the forest, for
// iteration by transformers and emitters.
func (f *Forest) AllPackages() []*Package {
	var out []*Package
	for _, root := range []*Root{f.Internal, f.External} {
		for _, repo := range root.Repositories {
			for _, pkg := range repo.Packages {
				out = append(out, pkg)
			}
		}
	}
	return out
}

// Lookup finds a node anywhere in the forest by its exact label, or
// returns nil if no package owns it. Used by transformers that start a
// walk from a configured root label (e.g. the cc_library deep merge).
func (f *Forest) Lookup(label string) Node {
	for _, pkg := range f.AllPackages() {
		if n, ok := pkg.Targets[label]; ok {
			return n
		}
	}
	return nil
}
