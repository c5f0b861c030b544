package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"mapl/internal/project"
)

type ScriptID uint32

type ScriptIndex struct {
	NameToID map[string]ScriptID
	IDToName []string
}

// собрать уникальные пути (скрипты и их импорты), отсортировать, раздать ID по порядку
func BuildIndex(metas []project.ScriptMeta) ScriptIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
		for _, dep := range meta.Imports {
			if dep.Path == "" {
				continue
			}
			uniq[dep.Path] = struct{}{}
		}
	}

	paths := make([]string, 0, len(uniq))
	for path := range uniq {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	nameToID := make(map[string]ScriptID, len(paths))
	for i, path := range paths {
		nameToID[path] = toID(i)
	}

	return ScriptIndex{
		NameToID: nameToID,
		IDToName: paths,
	}
}

func toID(i int) ScriptID {
	id, err := safecast.Conv[ScriptID](i)
	if err != nil {
		panic(fmt.Errorf("script id overflow: %w", err))
	}
	return id
}

// Names maps ids back to script paths.
func (idx ScriptIndex) Names(ids []ScriptID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}
