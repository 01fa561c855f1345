package gitrepo

import (
	"bufio"
	"context"
	"regexp"
	"strings"
)

const (
	fetchSubcommandConstant          = "fetch"
	fetchVerboseFlagConstant         = "--verbose"
	fetchOutputOverrideConstant      = "fetch.output=full"
	configurationFlagConstant        = "-c"
	fetchNewTagSummaryConstant       = "[new tag]"
	fetchNewBranchSummaryConstant    = "[new branch]"
	fetchNewReferenceSummaryConstant = "[new ref]"
	fetchTagUpdateSummaryConstant    = "[tag update]"
	fetchRejectedSummaryConstant     = "[rejected]"
	fetchRangeSeparatorConstant      = ".."
	fetchUpToDateFlagConstant        = '='
	fetchFastForwardFlagConstant     = ' '
	fetchForcedFlagConstant          = '+'
	fetchErrorFlagConstant           = '!'
	fetchNewReferenceFlagConstant    = '*'
	fetchTagFlagConstant             = 't'
	fetchPrunedFlagConstant          = '-'
)

// FetchFlag records what a fetch did to a single reference.
type FetchFlag uint

// Fetch outcome flags; a FetchResult may combine several.
const (
	FetchFlagNewTag FetchFlag = 1 << iota
	FetchFlagNewHead
	FetchFlagHeadUpToDate
	FetchFlagTagUpdate
	FetchFlagRejected
	FetchFlagForcedUpdate
	FetchFlagFastForward
	FetchFlagError
	FetchFlagPruned
)

var fetchFlagNames = []struct {
	flag FetchFlag
	name string
}{
	{flag: FetchFlagNewTag, name: "new_tag"},
	{flag: FetchFlagNewHead, name: "new_head"},
	{flag: FetchFlagHeadUpToDate, name: "head_uptodate"},
	{flag: FetchFlagTagUpdate, name: "tag_update"},
	{flag: FetchFlagRejected, name: "rejected"},
	{flag: FetchFlagForcedUpdate, name: "forced_update"},
	{flag: FetchFlagFastForward, name: "fast_forward"},
	{flag: FetchFlagError, name: "error"},
	{flag: FetchFlagPruned, name: "pruned"},
}

// Has reports whether every bit of other is set.
func (flag FetchFlag) Has(other FetchFlag) bool {
	return flag&other == other
}

// Names lists the set flags in declaration order.
func (flag FetchFlag) Names() []string {
	names := make([]string, 0, len(fetchFlagNames))
	for _, entry := range fetchFlagNames {
		if flag.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return names
}

// FetchResult describes one reference line reported by git fetch.
type FetchResult struct {
	Flags           FetchFlag
	Summary         string
	Note            string
	OldCommit       string
	RemoteReference string
	Name            string
}

// BranchName returns the branch part of a remote-tracking name such as origin/feature/x.
func (result FetchResult) BranchName() (string, bool) {
	segments := strings.SplitN(result.Name, pathSeparatorConstant, 2)
	if len(segments) < 2 || len(segments[1]) == 0 {
		return result.Name, false
	}
	return segments[1], true
}

var fetchLinePattern = regexp.MustCompile(`^ (.) (\[[^\]]*\]|\S+)\s+(.+?)\s+->\s+(\S+)(?:\s+\((.+)\))?\s*$`)

// ParseFetchOutput extracts per-reference results from git fetch --verbose output.
func ParseFetchOutput(output string) []FetchResult {
	results := make([]FetchResult, 0)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		result, matched := parseFetchLine(strings.TrimRight(scanner.Text(), "\r"))
		if matched {
			results = append(results, result)
		}
	}
	return results
}

func parseFetchLine(line string) (FetchResult, bool) {
	matches := fetchLinePattern.FindStringSubmatch(line)
	if matches == nil {
		return FetchResult{}, false
	}

	result := FetchResult{
		Summary:         matches[2],
		RemoteReference: matches[3],
		Name:            matches[4],
		Note:            strings.TrimSpace(matches[5]),
	}

	switch matches[1][0] {
	case fetchUpToDateFlagConstant:
		result.Flags |= FetchFlagHeadUpToDate
	case fetchFastForwardFlagConstant:
		result.Flags |= FetchFlagFastForward
	case fetchForcedFlagConstant:
		result.Flags |= FetchFlagForcedUpdate
	case fetchErrorFlagConstant:
		result.Flags |= FetchFlagError
	case fetchTagFlagConstant:
		result.Flags |= FetchFlagTagUpdate
	case fetchPrunedFlagConstant:
		result.Flags |= FetchFlagPruned
	case fetchNewReferenceFlagConstant:
	default:
		return FetchResult{}, false
	}

	switch result.Summary {
	case fetchNewTagSummaryConstant:
		result.Flags |= FetchFlagNewTag
	case fetchNewBranchSummaryConstant, fetchNewReferenceSummaryConstant:
		result.Flags |= FetchFlagNewHead
	case fetchTagUpdateSummaryConstant:
		result.Flags |= FetchFlagTagUpdate
	case fetchRejectedSummaryConstant:
		result.Flags |= FetchFlagRejected
	}

	if separatorIndex := strings.Index(result.Summary, fetchRangeSeparatorConstant); separatorIndex > 0 && !strings.HasPrefix(result.Summary, "[") {
		result.OldCommit = result.Summary[:separatorIndex]
	}

	return result, true
}

func (repository *Repository) fetch(executionContext context.Context) ([]FetchResult, error) {
	arguments := []string{
		configurationFlagConstant,
		fetchOutputOverrideConstant,
		fetchSubcommandConstant,
		fetchVerboseFlagConstant,
		repository.remote.Name,
	}
	result, executionError := repository.runGit(executionContext, repository.path, arguments...)
	if executionError != nil {
		return nil, executionError
	}
	return ParseFetchOutput(result.StandardError + result.StandardOutput), nil
}
