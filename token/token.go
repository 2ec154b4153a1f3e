// Package token defines the lexical category enumeration shared by the
// lexer and parser.
package token

// Type is a lexical category. The enumeration pairs every valid category
// with an error variant immediately after it, so Type%2==1 identifies an
// error token without a lookup table.
type Type int

const (
	ILLEGAL Type = iota
	ILLEGAL_ERR

	EOF
	EOF_ERR

	// Structure
	ALGORITHME
	ALGORITHME_ERR
	DEBUT
	DEBUT_ERR
	FIN
	FIN_ERR

	// Declarations / types
	OBJETS
	OBJETS_ERR
	VARIABLE
	VARIABLE_ERR
	CONSTANTE
	CONSTANTE_ERR
	ENTIER
	ENTIER_ERR
	REEL
	REEL_ERR
	CARACTERE
	CARACTERE_ERR
	CHAINE
	CHAINE_ERR
	BOOLEEN
	BOOLEEN_ERR
	TABLEAU
	TABLEAU_ERR
	DE
	DE_ERR
	STRUCTURE
	STRUCTURE_ERR
	FIN_STRUCT
	FIN_STRUCT_ERR

	// Literals
	IDENT
	IDENT_ERR
	CONST_ENTIERE
	CONST_ENTIERE_ERR
	CONST_REEL
	CONST_REEL_ERR
	CONST_CHAINE
	CONST_CHAINE_ERR

	// I/O
	ECRIRE
	ECRIRE_ERR
	LIRE
	LIRE_ERR
	RETOUR
	RETOUR_ERR
	RETOURNER
	RETOURNER_ERR

	// Logical constants / operators
	VRAI
	VRAI_ERR
	FAUX
	FAUX_ERR
	ET
	ET_ERR
	OU
	OU_ERR
	NON
	NON_ERR

	// Comparators
	INFERIEUR
	INFERIEUR_ERR
	INFERIEUR_EGAL
	INFERIEUR_EGAL_ERR
	SUPERIEUR
	SUPERIEUR_ERR
	SUPERIEUR_EGAL
	SUPERIEUR_EGAL_ERR
	EGAL
	EGAL_ERR
	DIFFERENT
	DIFFERENT_ERR

	// Assignment / separators / punctuation
	AFFECTATION
	AFFECTATION_ERR
	DEUX_POINTS
	DEUX_POINTS_ERR
	VIRGULE
	VIRGULE_ERR
	PAREN_OUVRANTE
	PAREN_OUVRANTE_ERR
	PAREN_FERMANTE
	PAREN_FERMANTE_ERR
	CROCHET_OUVRANT
	CROCHET_OUVRANT_ERR
	CROCHET_FERMANT
	CROCHET_FERMANT_ERR
	POINT
	POINT_ERR
	FIN_INSTR
	FIN_INSTR_ERR

	// Arithmetic operators
	PLUS
	PLUS_ERR
	MOINS
	MOINS_ERR
	FOIS
	FOIS_ERR
	DIVISE
	DIVISE_ERR
	DIV_ENTIER
	DIV_ENTIER_ERR
	MODULO
	MODULO_ERR
	PUISSANCE
	PUISSANCE_ERR

	// Control flow
	SI
	SI_ERR
	SINONSI
	SINONSI_ERR
	ALORS
	ALORS_ERR
	SINON
	SINON_ERR
	FIN_SI
	FIN_SI_ERR
	SELON
	SELON_ERR
	CAS
	CAS_ERR
	DEFAUT
	DEFAUT_ERR
	FIN_SELON
	FIN_SELON_ERR
	SORTIR
	SORTIR_ERR
	POUR
	POUR_ERR
	JUSQUA
	JUSQUA_ERR
	REPETER
	REPETER_ERR
	PAS
	PAS_ERR
	FIN_POUR
	FIN_POUR_ERR
	QUITTER_POUR
	QUITTER_POUR_ERR
	TANTQUE
	TANTQUE_ERR
	FIN_TANTQUE
	FIN_TANTQUE_ERR

	// Procedures / functions
	PROCEDURE
	PROCEDURE_ERR
	FIN_PROC
	FIN_PROC_ERR
	FONCTION
	FONCTION_ERR
	FIN_FONCT
	FIN_FONCT_ERR
)

var names = map[Type]string{
	ILLEGAL: "ILLEGAL", ILLEGAL_ERR: "ILLEGAL_ERR",
	EOF: "EOF", EOF_ERR: "EOF_ERR",

	ALGORITHME: "ALGORITHME", ALGORITHME_ERR: "ALGORITHME_ERR",
	DEBUT: "DEBUT", DEBUT_ERR: "DEBUT_ERR",
	FIN: "FIN", FIN_ERR: "FIN_ERR",

	OBJETS: "OBJETS", OBJETS_ERR: "OBJETS_ERR",
	VARIABLE: "VARIABLE", VARIABLE_ERR: "VARIABLE_ERR",
	CONSTANTE: "CONSTANTE", CONSTANTE_ERR: "CONSTANTE_ERR",
	ENTIER: "ENTIER", ENTIER_ERR: "ENTIER_ERR",
	REEL: "REEL", REEL_ERR: "REEL_ERR",
	CARACTERE: "CARACTERE", CARACTERE_ERR: "CARACTERE_ERR",
	CHAINE: "CHAINE", CHAINE_ERR: "CHAINE_ERR",
	BOOLEEN: "BOOLEEN", BOOLEEN_ERR: "BOOLEEN_ERR",
	TABLEAU: "TABLEAU", TABLEAU_ERR: "TABLEAU_ERR",
	DE: "DE", DE_ERR: "DE_ERR",
	STRUCTURE: "STRUCTURE", STRUCTURE_ERR: "STRUCTURE_ERR",
	FIN_STRUCT: "FIN_STRUCT", FIN_STRUCT_ERR: "FIN_STRUCT_ERR",

	IDENT: "IDENT", IDENT_ERR: "IDENT_ERR",
	CONST_ENTIERE: "CONST_ENTIERE", CONST_ENTIERE_ERR: "CONST_ENTIERE_ERR",
	CONST_REEL: "CONST_REEL", CONST_REEL_ERR: "CONST_REEL_ERR",
	CONST_CHAINE: "CONST_CHAINE", CONST_CHAINE_ERR: "CONST_CHAINE_ERR",

	ECRIRE: "ECRIRE", ECRIRE_ERR: "ECRIRE_ERR",
	LIRE: "LIRE", LIRE_ERR: "LIRE_ERR",
	RETOUR: "RETOUR", RETOUR_ERR: "RETOUR_ERR",
	RETOURNER: "RETOURNER", RETOURNER_ERR: "RETOURNER_ERR",

	VRAI: "VRAI", VRAI_ERR: "VRAI_ERR",
	FAUX: "FAUX", FAUX_ERR: "FAUX_ERR",
	ET: "ET", ET_ERR: "ET_ERR",
	OU: "OU", OU_ERR: "OU_ERR",
	NON: "NON", NON_ERR: "NON_ERR",

	INFERIEUR: "INFERIEUR", INFERIEUR_ERR: "INFERIEUR_ERR",
	INFERIEUR_EGAL: "INFERIEUR_EGAL", INFERIEUR_EGAL_ERR: "INFERIEUR_EGAL_ERR",
	SUPERIEUR: "SUPERIEUR", SUPERIEUR_ERR: "SUPERIEUR_ERR",
	SUPERIEUR_EGAL: "SUPERIEUR_EGAL", SUPERIEUR_EGAL_ERR: "SUPERIEUR_EGAL_ERR",
	EGAL: "EGAL", EGAL_ERR: "EGAL_ERR",
	DIFFERENT: "DIFFERENT", DIFFERENT_ERR: "DIFFERENT_ERR",

	AFFECTATION: "AFFECTATION", AFFECTATION_ERR: "AFFECTATION_ERR",
	DEUX_POINTS: "DEUX_POINTS", DEUX_POINTS_ERR: "DEUX_POINTS_ERR",
	VIRGULE: "VIRGULE", VIRGULE_ERR: "VIRGULE_ERR",
	PAREN_OUVRANTE: "PAREN_OUVRANTE", PAREN_OUVRANTE_ERR: "PAREN_OUVRANTE_ERR",
	PAREN_FERMANTE: "PAREN_FERMANTE", PAREN_FERMANTE_ERR: "PAREN_FERMANTE_ERR",
	CROCHET_OUVRANT: "CROCHET_OUVRANT", CROCHET_OUVRANT_ERR: "CROCHET_OUVRANT_ERR",
	CROCHET_FERMANT: "CROCHET_FERMANT", CROCHET_FERMANT_ERR: "CROCHET_FERMANT_ERR",
	POINT: "POINT", POINT_ERR: "POINT_ERR",
	FIN_INSTR: "FIN_INSTR", FIN_INSTR_ERR: "FIN_INSTR_ERR",

	PLUS: "PLUS", PLUS_ERR: "PLUS_ERR",
	MOINS: "MOINS", MOINS_ERR: "MOINS_ERR",
	FOIS: "FOIS", FOIS_ERR: "FOIS_ERR",
	DIVISE: "DIVISE", DIVISE_ERR: "DIVISE_ERR",
	DIV_ENTIER: "DIV_ENTIER", DIV_ENTIER_ERR: "DIV_ENTIER_ERR",
	MODULO: "MODULO", MODULO_ERR: "MODULO_ERR",
	PUISSANCE: "PUISSANCE", PUISSANCE_ERR: "PUISSANCE_ERR",

	SI: "SI", SI_ERR: "SI_ERR",
	SINONSI: "SINONSI", SINONSI_ERR: "SINONSI_ERR",
	ALORS: "ALORS", ALORS_ERR: "ALORS_ERR",
	SINON: "SINON", SINON_ERR: "SINON_ERR",
	FIN_SI: "FIN_SI", FIN_SI_ERR: "FIN_SI_ERR",
	SELON: "SELON", SELON_ERR: "SELON_ERR",
	CAS: "CAS", CAS_ERR: "CAS_ERR",
	DEFAUT: "DEFAUT", DEFAUT_ERR: "DEFAUT_ERR",
	FIN_SELON: "FIN_SELON", FIN_SELON_ERR: "FIN_SELON_ERR",
	SORTIR: "SORTIR", SORTIR_ERR: "SORTIR_ERR",
	POUR: "POUR", POUR_ERR: "POUR_ERR",
	JUSQUA: "JUSQUA", JUSQUA_ERR: "JUSQUA_ERR",
	REPETER: "REPETER", REPETER_ERR: "REPETER_ERR",
	PAS: "PAS", PAS_ERR: "PAS_ERR",
	FIN_POUR: "FIN_POUR", FIN_POUR_ERR: "FIN_POUR_ERR",
	QUITTER_POUR: "QUITTER_POUR", QUITTER_POUR_ERR: "QUITTER_POUR_ERR",
	TANTQUE: "TANTQUE", TANTQUE_ERR: "TANTQUE_ERR",
	FIN_TANTQUE: "FIN_TANTQUE", FIN_TANTQUE_ERR: "FIN_TANTQUE_ERR",

	PROCEDURE: "PROCEDURE", PROCEDURE_ERR: "PROCEDURE_ERR",
	FIN_PROC: "FIN_PROC", FIN_PROC_ERR: "FIN_PROC_ERR",
	FONCTION: "FONCTION", FONCTION_ERR: "FONCTION_ERR",
	FIN_FONCT: "FIN_FONCT", FIN_FONCT_ERR: "FIN_FONCT_ERR",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// IsError reports whether t is the error variant of some lexical category.
func (t Type) IsError() bool { return t%2 == 1 }

// keywords maps every accepted spelling (both the capitalized and the
// all-lowercase form, and any additional historical variant) to its token
// type. Kept flat and case-sensitive rather than normalized at lookup time,
// so the accepted-spellings list stays an explicit, auditable table.
var keywords = map[string]Type{
	"Algorithme": ALGORITHME, "algorithme": ALGORITHME,
	"Début": DEBUT, "début": DEBUT, "Debut": DEBUT, "debut": DEBUT,
	"Fin": FIN, "fin": FIN,

	"Objets": OBJETS, "objets": OBJETS,
	"Variable": VARIABLE, "variable": VARIABLE,
	"Constante": CONSTANTE, "constante": CONSTANTE,
	"entier": ENTIER, "Entier": ENTIER,
	"réel": REEL, "reel": REEL, "Réel": REEL,
	"caractère": CARACTERE, "caractere": CARACTERE, "Caractère": CARACTERE,
	"chaine": CHAINE, "chaîne": CHAINE, "Chaine": CHAINE, "Chaîne": CHAINE,
	"booléen": BOOLEEN, "booleen": BOOLEEN, "Booléen": BOOLEEN,
	"tableau": TABLEAU, "Tableau": TABLEAU,
	"de": DE, "De": DE,
	"Structure": STRUCTURE, "structure": STRUCTURE,
	"Fin-struct": FIN_STRUCT, "fin-struct": FIN_STRUCT, "finstruct": FIN_STRUCT,

	"Ecrire": ECRIRE, "ecrire": ECRIRE, "Écrire": ECRIRE, "écrire": ECRIRE,
	"Lire": LIRE, "lire": LIRE,
	"Retour": RETOUR, "retour": RETOUR,
	"Retourner": RETOURNER, "retourner": RETOURNER,

	"Vrai": VRAI, "vrai": VRAI,
	"Faux": FAUX, "faux": FAUX,
	"Et": ET, "et": ET,
	"Ou": OU, "ou": OU,
	"Non": NON, "non": NON,

	"Div": DIV_ENTIER, "div": DIV_ENTIER,
	"Mod": MODULO, "mod": MODULO,

	"Si": SI, "si": SI,
	"SinonSi": SINONSI, "sinonsi": SINONSI, "sinon-si": SINONSI,
	"Sinon": SINON, "sinon": SINON,
	"Alors": ALORS, "alors": ALORS,
	"FinSi": FIN_SI, "finsi": FIN_SI,
	"Selon": SELON, "selon": SELON,
	"Cas": CAS, "cas": CAS,
	"Défaut": DEFAUT, "défaut": DEFAUT, "defaut": DEFAUT, "Defaut": DEFAUT,
	"FinSelon": FIN_SELON, "finselon": FIN_SELON,
	"Sortir": SORTIR, "sortir": SORTIR,
	"Pour": POUR, "pour": POUR,
	"jusqu'à": JUSQUA, "Jusqu'à": JUSQUA, "jusqua": JUSQUA, "Jusqua": JUSQUA, "JusquA": JUSQUA, "JUSQUA": JUSQUA,
	"Répéter": REPETER, "repeter": REPETER, "répéter": REPETER,
	"pas": PAS, "Pas": PAS,
	"FinPour": FIN_POUR, "finpour": FIN_POUR,
	"Quitter": QUITTER_POUR, "quitter": QUITTER_POUR,
	"TantQue": TANTQUE, "tantque": TANTQUE,
	"FinTantQue": FIN_TANTQUE, "fintantque": FIN_TANTQUE,

	"Procédure": PROCEDURE, "procédure": PROCEDURE, "procedure": PROCEDURE,
	"FinProc": FIN_PROC, "finproc": FIN_PROC,
	"Fonction": FONCTION, "fonction": FONCTION,
	"FinFonct": FIN_FONCT, "finfonct": FIN_FONCT,
}

// Lookup returns the keyword token type for ident, or IDENT if ident is not
// a reserved word.
func Lookup(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Token is an immutable lexical unit: a category, its source text, and the
// 1-based line/column of its first character.
type Token struct {
	Type   Type
	Lit    string
	Line   int
	Column int
}
