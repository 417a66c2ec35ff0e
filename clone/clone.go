// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

// Package clone copies group memberships, and optionally direct reports,
// from one directory user to another. Planning is separated from applying
// so a dry run can print exactly what would change.
package clone

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/hoffsec/adkit/connection/adldap"
)

// Directory is the on-prem surface the clone needs: user lookup plus the
// two write operations.
type Directory interface {
	FindUser(name string) (*adldap.User, error)
	AddGroupMember(groupDN, memberDN string) error
	SetManager(userDN, managerDN string) error
}

// Plan lists the changes that would bring the target in line with the
// source.
type Plan struct {
	SourceDN      string   `json:"sourceDN"`
	TargetDN      string   `json:"targetDN"`
	GroupsToAdd   []string `json:"groupsToAdd,omitempty"`
	AlreadyMember []string `json:"alreadyMember,omitempty"`
	ReportsToMove []string `json:"reportsToMove,omitempty"`
}

func (p *Plan) Empty() bool {
	return len(p.GroupsToAdd) == 0 && len(p.ReportsToMove) == 0
}

type Options struct {
	// DirectReports re-points the source's direct reports at the target.
	DirectReports bool
}

// BuildPlan computes the changes from the already-fetched users. The
// primary group (Domain Users via primaryGroupID) never shows up in
// memberOf and is therefore never copied.
func BuildPlan(source, target *adldap.User, opts Options) (*Plan, error) {
	if strings.EqualFold(source.DN, target.DN) {
		return nil, errors.New("source and target are the same user")
	}

	plan := &Plan{SourceDN: source.DN, TargetDN: target.DN}

	targetGroups := map[string]struct{}{}
	for _, dn := range target.MemberOf {
		targetGroups[strings.ToLower(dn)] = struct{}{}
	}

	for _, groupDN := range source.MemberOf {
		if _, ok := targetGroups[strings.ToLower(groupDN)]; ok {
			plan.AlreadyMember = append(plan.AlreadyMember, groupDN)
			continue
		}
		plan.GroupsToAdd = append(plan.GroupsToAdd, groupDN)
	}

	if opts.DirectReports {
		for _, reportDN := range source.DirectReports {
			// a target that reports to the source keeps its manager
			if strings.EqualFold(reportDN, target.DN) {
				continue
			}
			plan.ReportsToMove = append(plan.ReportsToMove, reportDN)
		}
	}

	sort.Strings(plan.GroupsToAdd)
	sort.Strings(plan.AlreadyMember)
	sort.Strings(plan.ReportsToMove)

	return plan, nil
}

// Result counts what Apply actually did.
type Result struct {
	GroupsAdded   int      `json:"groupsAdded"`
	GroupsSkipped int      `json:"groupsSkipped"`
	GroupsFailed  int      `json:"groupsFailed"`
	ReportsMoved  int      `json:"reportsMoved"`
	ReportsFailed int      `json:"reportsFailed"`
	Errors        []string `json:"errors,omitempty"`
}

// Apply executes the plan, group by group. Individual failures are
// recorded and the remaining changes still run.
func Apply(dir Directory, plan *Plan) *Result {
	res := &Result{}

	for _, groupDN := range plan.GroupsToAdd {
		err := dir.AddGroupMember(groupDN, plan.TargetDN)
		switch {
		case err == nil:
			res.GroupsAdded++
			log.Debug().Str("group", groupDN).Msg("added membership")
		case errors.Is(err, adldap.ErrAlreadyMember):
			res.GroupsSkipped++
		default:
			res.GroupsFailed++
			res.Errors = append(res.Errors, err.Error())
			log.Warn().Err(err).Str("group", groupDN).Msg("could not add membership")
		}
	}

	for _, reportDN := range plan.ReportsToMove {
		if err := dir.SetManager(reportDN, plan.TargetDN); err != nil {
			res.ReportsFailed++
			res.Errors = append(res.Errors, err.Error())
			log.Warn().Err(err).Str("report", reportDN).Msg("could not update manager")
			continue
		}
		res.ReportsMoved++
		log.Debug().Str("report", reportDN).Msg("manager updated")
	}

	return res
}

// Resolve looks up source and target accounts and builds the plan.
func Resolve(dir Directory, sourceName, targetName string, opts Options) (*Plan, error) {
	source, err := dir.FindUser(sourceName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not resolve source user %s", sourceName)
	}
	target, err := dir.FindUser(targetName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not resolve target user %s", targetName)
	}
	return BuildPlan(source, target, opts)
}
