// Package probe implements Component G, the bounded-parallel binary probe
// engine (spec.md §4.G), and backs Component H, shell discovery (spec.md
// §4.H), via the same probing primitive.
package probe

// Entry is one catalog row: a program name and the argument(s) used to query
// its version cheaply and non-interactively.
type Entry struct {
	Name        string
	Category    string
	VersionArgs []string
}

// Catalog is the static, build-time table of probeable developer tools
// (spec.md §4.G "Catalog"). Extensibility is out of scope.
var Catalog = buildCatalog()

func buildCatalog() []Entry {
	var entries []Entry
	add := func(category string, rows [][2]string) {
		for _, row := range rows {
			entries = append(entries, Entry{Name: row[0], Category: category, VersionArgs: []string{row[1]}})
		}
	}

	add("package_managers", [][2]string{
		{"apt", "--version"},
		{"apt-get", "--version"},
		{"brew", "--version"},
		{"dpkg", "--version"},
		{"pip", "--version"},
		{"pip3", "--version"},
		{"npm", "--version"},
		{"yarn", "--version"},
		{"pnpm", "--version"},
		{"cargo", "--version"},
		{"conda", "--version"},
		{"yum", "--version"},
		{"dnf", "--version"},
		{"pacman", "--version"},
		{"apk", "--version"},
	})

	add("rust_tools", [][2]string{
		{"rustc", "--version"},
		{"cargo", "--version"},
		{"rustup", "--version"},
		{"clippy-driver", "--version"},
		{"rustfmt", "--version"},
	})

	add("python_tools", [][2]string{
		{"python3", "--version"},
		{"python", "--version"},
		{"poetry", "--version"},
		{"pytest", "--version"},
		{"black", "--version"},
		{"ruff", "--version"},
		{"mypy", "--version"},
		{"uv", "--version"},
	})

	add("build_systems", [][2]string{
		{"make", "--version"},
		{"cmake", "--version"},
		{"ninja", "--version"},
		{"bazel", "--version"},
		{"meson", "--version"},
		{"gradle", "--version"},
		{"maven", "--version"},
		{"mvn", "--version"},
	})

	add("c_cpp_tools", [][2]string{
		{"gcc", "--version"},
		{"g++", "--version"},
		{"clang", "--version"},
		{"clang++", "--version"},
		{"gdb", "--version"},
		{"lldb", "--version"},
		{"valgrind", "--version"},
	})

	add("java_jvm_tools", [][2]string{
		{"java", "--version"},
		{"javac", "--version"},
		{"kotlin", "--version"},
		{"scala", "--version"},
	})

	add("node_js_tools", [][2]string{
		{"node", "--version"},
		{"deno", "--version"},
		{"bun", "--version"},
		{"tsc", "--version"},
	})

	add("go_tools", [][2]string{
		{"go", "version"},
		{"gofmt", "--version"},
		{"golangci-lint", "--version"},
		{"delve", "version"},
		{"dlv", "version"},
	})

	add("editors_dev", [][2]string{
		{"vim", "--version"},
		{"nvim", "--version"},
		{"emacs", "--version"},
		{"code", "--version"},
		{"tmux", "-V"},
	})

	add("search_productivity", [][2]string{
		{"rg", "--version"},
		{"fd", "--version"},
		{"fzf", "--version"},
		{"jq", "--version"},
		{"yq", "--version"},
		{"ag", "--version"},
	})

	add("system_perf", [][2]string{
		{"htop", "--version"},
		{"top", "--version"},
		{"strace", "--version"},
		{"perf", "--version"},
		{"lsof", "-v"},
	})

	add("containers", [][2]string{
		{"docker", "--version"},
		{"podman", "--version"},
		{"kubectl", "version"},
		{"helm", "version"},
		{"docker-compose", "--version"},
	})

	add("networking", [][2]string{
		{"curl", "--version"},
		{"wget", "--version"},
		{"ssh", "-V"},
		{"nc", "-h"},
		{"dig", "-v"},
	})

	add("security", [][2]string{
		{"openssl", "version"},
		{"gpg", "--version"},
		{"age", "--version"},
	})

	add("databases", [][2]string{
		{"psql", "--version"},
		{"mysql", "--version"},
		{"sqlite3", "--version"},
		{"redis-cli", "--version"},
		{"mongosh", "--version"},
	})

	add("vcs", [][2]string{
		{"git", "--version"},
		{"hg", "--version"},
		{"svn", "--version"},
	})

	return entries
}

// Categories returns the distinct category names in the catalog, in the
// order they first appear.
func Categories() []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, e := range Catalog {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		cats = append(cats, e.Category)
	}
	return cats
}
